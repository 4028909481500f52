package model

// Capability names the connector-bearing role an element exposes. The
// numeric order is the extraction precedence: lower wins.
type Capability int

const (
	CapabilityMEPModel Capability = iota // family instance with an MEP sub-model
	CapabilitySystem                     // system aggregate
	CapabilityConduit                    // linear conduit (pipe curve)
)

func (c Capability) String() string {
	switch c {
	case CapabilityMEPModel:
		return "mep-model"
	case CapabilitySystem:
		return "system"
	case CapabilityConduit:
		return "conduit"
	default:
		return "unknown"
	}
}

// ConnectorSource is implemented by every capability variant.
type ConnectorSource interface {
	Capability() Capability
	Connectors() *ConnectorManager
}

// MEPModel is the MEP sub-model owned by a family instance (fittings,
// accessories, equipment with piping connectors).
type MEPModel struct {
	Manager *ConnectorManager
}

func (m *MEPModel) Capability() Capability        { return CapabilityMEPModel }
func (m *MEPModel) Connectors() *ConnectorManager { return m.Manager }

// SystemAggregate is an element that is itself a piping system.
type SystemAggregate struct {
	Manager *ConnectorManager
}

func (s *SystemAggregate) Capability() Capability        { return CapabilitySystem }
func (s *SystemAggregate) Connectors() *ConnectorManager { return s.Manager }

// Conduit is a linear element such as a pipe curve.
type Conduit struct {
	Manager *ConnectorManager
}

func (c *Conduit) Capability() Capability        { return CapabilityConduit }
func (c *Conduit) Connectors() *ConnectorManager { return c.Manager }

// Compile-time interface checks.
var (
	_ ConnectorSource = (*MEPModel)(nil)
	_ ConnectorSource = (*SystemAggregate)(nil)
	_ ConnectorSource = (*Conduit)(nil)
)
