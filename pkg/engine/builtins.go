package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/pipesys/pkg/model"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms model script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: piping-system -> piping_system
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a point in document coordinates (feet).
type sexpPoint struct {
	p v3.Vec
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(xyz %g %g %g)", s.p.X, s.p.Y, s.p.Z)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpElementRef is returned by every element-creating builtin.
type sexpElementRef struct {
	id   model.ElementID
	name string
}

func (r *sexpElementRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(element %s %q)", r.id, r.name)
}
func (r *sexpElementRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a point from a sexpPoint.
func toPoint(s zygo.Sexp) (v3.Vec, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return v3.Vec{}, fmt.Errorf("expected xyz point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints converts a list of xyz points.
func toPoints(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	pts := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// nameArg returns the leading positional name of an element builtin.
func nameArg(fn string, pa kwArgs) (string, error) {
	if len(pa.positional) < 1 {
		return "", fmt.Errorf("%s requires a name argument", fn)
	}
	s, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return s, nil
}

// connectorsArg reads the :connectors keyword, or nil when absent.
func connectorsArg(fn string, pa kwArgs) ([]v3.Vec, error) {
	v, ok := pa.kw["connectors"]
	if !ok {
		return nil, nil
	}
	pts, err := toPoints(v)
	if err != nil {
		return nil, fmt.Errorf("%s: connectors: %w", fn, err)
	}
	return pts, nil
}

func ref(e *model.Element) *sexpElementRef {
	return &sexpElementRef{id: e.ID, name: e.Name}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the model script builtins into a zygomys
// environment. The builtins append elements to doc in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, doc *model.Document) {

	// -----------------------------------------------------------------------
	// (xyz 0 0 10)
	// -----------------------------------------------------------------------
	env.AddFunction("xyz", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("xyz requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("xyz: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpPoint{p: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (pipe "P1" :diameter 0.5 :from (xyz 0 0 0) :to (xyz 0 0 10))
	// (pipe "P1" :diameter 0.5 :connectors (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("pipe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pipeName, err := nameArg("pipe", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		var diameter float64
		if v, ok := pa.kw["diameter"]; ok {
			if diameter, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("pipe: diameter: %w", err)
			}
		}

		pts, err := connectorsArg("pipe", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		_, hasConnectors := pa.kw["connectors"]
		from, hasFrom := pa.kw["from"]
		to, hasTo := pa.kw["to"]
		if hasConnectors && (hasFrom || hasTo) {
			return zygo.SexpNull, fmt.Errorf("pipe: use either :connectors or :from/:to, not both")
		}
		if !hasConnectors {
			if !hasFrom || !hasTo {
				return zygo.SexpNull, fmt.Errorf("pipe: :from and :to are required")
			}
			a, err := toPoint(from)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pipe: from: %w", err)
			}
			b, err := toPoint(to)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pipe: to: %w", err)
			}
			pts = []v3.Vec{a, b}
		}

		e, err := doc.AddPipe(pipeName, diameter, pts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pipe: %w", err)
		}
		return ref(e), nil
	})

	// -----------------------------------------------------------------------
	// (fitting "E1" :family "Elbow - Generic" :connectors (list ...) :mep true)
	// -----------------------------------------------------------------------
	env.AddFunction("fitting", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		fittingName, err := nameArg("fitting", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		var family string
		if v, ok := pa.kw["family"]; ok {
			if family, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("fitting: family: %w", err)
			}
		}
		withMEP := true
		if v, ok := pa.kw["mep"]; ok {
			if withMEP, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("fitting: mep: %w", err)
			}
		}
		pts, err := connectorsArg("fitting", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !withMEP && len(pts) > 0 {
			return zygo.SexpNull, fmt.Errorf("fitting: connectors require an MEP model")
		}

		e, err := doc.AddFitting(fittingName, family, withMEP, pts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fitting: %w", err)
		}
		return ref(e), nil
	})

	// -----------------------------------------------------------------------
	// (fitting-type "Elbow - Generic")
	// -----------------------------------------------------------------------
	env.AddFunction("fitting_type", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		family, err := nameArg("fitting-type", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		e, err := doc.AddFittingType(family)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fitting-type: %w", err)
		}
		return ref(e), nil
	})

	// -----------------------------------------------------------------------
	// (piping-system "Domestic Cold Water" :connectors (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("piping_system", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sysName, err := nameArg("piping-system", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		pts, err := connectorsArg("piping-system", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		e, err := doc.AddSystem(sysName, pts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("piping-system: %w", err)
		}
		return ref(e), nil
	})

	// -----------------------------------------------------------------------
	// (equipment "Pump 1")
	// -----------------------------------------------------------------------
	env.AddFunction("equipment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		eqName, err := nameArg("equipment", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		e, err := doc.AddEquipment(eqName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("equipment: %w", err)
		}
		return ref(e), nil
	})
}
