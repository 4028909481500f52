// Package report generates the piping diagnostic report: every pipe with
// its millimeter diameter and end points, then every fitting with its role
// and connector points. Per-element defects are reported inline and never
// stop the run.
package report

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chazu/pipesys/pkg/classify"
	"github.com/chazu/pipesys/pkg/connector"
	"github.com/chazu/pipesys/pkg/format"
	"github.com/chazu/pipesys/pkg/model"
	"github.com/chazu/pipesys/pkg/query"
)

// ErrPipeConnectorCount is reported for a pipe without exactly two connectors.
var ErrPipeConnectorCount = errors.New("expected two endpoints on pipe")

// AnomalyKind tells which element family an anomaly belongs to.
type AnomalyKind string

const (
	AnomalyPipe    AnomalyKind = "pipe"
	AnomalyFitting AnomalyKind = "fitting"
)

// Anomaly is a per-element failure recorded in place of a report line.
type Anomaly struct {
	Kind    AnomalyKind
	Element model.ElementID
	Name    string
	Err     error
}

// Line renders the anomaly as an inline report line.
func (a Anomaly) Line() string {
	return fmt.Sprintf("  ! %s '%s': %v", a.Kind, a.Name, a.Err)
}

// Summary is the outcome of a report run.
type Summary struct {
	RunID     string
	Pipes     int
	Fittings  int
	Roles     map[classify.Role]int
	Lines     []string
	Anomalies []Anomaly
}

// OK reports whether every element was reported without anomaly.
func (s *Summary) OK() bool {
	return len(s.Anomalies) == 0
}

// Generator produces reports. It holds no per-run state and may be reused.
type Generator struct {
	log *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for anomalies and run boundaries.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{log: slog.Default()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// run threads the per-call state through the generation steps.
type run struct {
	log     *slog.Logger
	sink    Sink
	summary *Summary
}

func (r *run) emit(line string) error {
	if err := r.sink.WriteLine(line); err != nil {
		return fmt.Errorf("report: write line: %w", err)
	}
	r.summary.Lines = append(r.summary.Lines, line)
	return nil
}

func (r *run) anomaly(a Anomaly) error {
	r.summary.Anomalies = append(r.summary.Anomalies, a)
	r.log.Warn("element anomaly",
		"kind", string(a.Kind),
		"element", int64(a.Element),
		"name", a.Name,
		"error", a.Err)
	return r.emit(a.Line())
}

// Generate writes the report for doc to sink. Element-level problems are
// written as anomaly lines and collected in the summary; only a failure to
// read the document or to write to the sink is returned as an error.
func (g *Generator) Generate(doc *model.Document, sink Sink) (*Summary, error) {
	runID := uuid.NewString()
	r := &run{
		log:  g.log.With("run_id", runID, "document", doc.Title),
		sink: sink,
		summary: &Summary{
			RunID: runID,
			Roles: make(map[classify.Role]int),
		},
	}
	r.log.Debug("report started")

	if err := r.pipes(doc); err != nil {
		return r.summary, err
	}
	if err := r.fittings(doc); err != nil {
		return r.summary, err
	}

	r.log.Info("report complete",
		"pipes", r.summary.Pipes,
		"fittings", r.summary.Fittings,
		"anomalies", len(r.summary.Anomalies))
	return r.summary, nil
}

func (r *run) pipes(doc *model.Document) error {
	pipes, err := query.Pipes(doc)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	n := len(pipes)
	r.summary.Pipes = n
	if err := r.emit(fmt.Sprintf("%d pipe%s%s", n, format.PluralSuffix(n), format.Terminator(n))); err != nil {
		return err
	}
	for _, p := range pipes {
		line, err := pipeLine(p)
		if err != nil {
			if err := r.anomaly(Anomaly{Kind: AnomalyPipe, Element: p.ID, Name: p.Name, Err: err}); err != nil {
				return err
			}
			continue
		}
		if err := r.emit(line); err != nil {
			return err
		}
	}
	return nil
}

func pipeLine(p *model.Element) (string, error) {
	pts, err := connector.Points(p)
	if err != nil {
		return "", err
	}
	if len(pts) != 2 {
		return "", fmt.Errorf("%w, got %d", ErrPipeConnectorCount, len(pts))
	}
	mm, err := format.DiameterMM(p.Diameter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("  pipe '%s' %dmm %s %s %s",
		p.Name, mm, format.Real(p.Diameter), format.Point(pts[0]), format.Point(pts[1])), nil
}

func (r *run) fittings(doc *model.Document) error {
	fittings, err := query.Fittings(doc)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	n := len(fittings)
	r.summary.Fittings = n
	if err := r.emit(fmt.Sprintf("%d fitting%s%s", n, format.PluralSuffix(n), format.Terminator(n))); err != nil {
		return err
	}
	for _, f := range fittings {
		role, line, err := fittingLine(f)
		if err != nil {
			if err := r.anomaly(Anomaly{Kind: AnomalyFitting, Element: f.ID, Name: f.Name, Err: err}); err != nil {
				return err
			}
			continue
		}
		r.summary.Roles[role]++
		if err := r.emit(line); err != nil {
			return err
		}
	}
	return nil
}

func fittingLine(f *model.Element) (classify.Role, string, error) {
	pts, err := connector.Points(f)
	if err != nil {
		return 0, "", err
	}
	role, err := classify.Classify(len(pts))
	if err != nil {
		return 0, "", err
	}
	return role, fmt.Sprintf("  %s '%s' '%s' %s", role, f.FamilyName, f.Name, format.Points(pts)), nil
}
