package engine

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/pipesys/pkg/connector"
	"github.com/chazu/pipesys/pkg/model"
	"github.com/chazu/pipesys/pkg/query"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(fitting "E1" :family "Elbow")`,
			expect: `(fitting "E1" "__kw_family" "Elbow")`,
		},
		{
			name:   "multiple keywords",
			input:  `(pipe "P" :diameter 0.5 :from a)`,
			expect: `(pipe "P" "__kw_diameter" 0.5 "__kw_from" a)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(piping-system "S" :connectors pts)`,
			expect: `(piping_system "S" "__kw_connectors" pts)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(xyz 0 -1.5 0)`,
			expect: `(xyz 0 -1.5 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:family-name`,
			expect: `"__kw_family-name"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Element builtins
// ---------------------------------------------------------------------------

// mustEvaluate evaluates source and fails the test on any error.
func mustEvaluate(t *testing.T, source string) *model.Document {
	t.Helper()
	doc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if doc == nil {
		t.Fatal("expected non-nil document")
	}
	return doc
}

// evalErrorsFor evaluates source that must fail with eval errors.
func evalErrorsFor(t *testing.T, source string) []EvalError {
	t.Helper()
	doc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if doc != nil {
		t.Fatal("expected nil document on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	return evalErrs
}

func TestPipeFromTo(t *testing.T) {
	doc := mustEvaluate(t, `
(pipe "P1" :diameter 0.5 :from (xyz 0 0 0) :to (xyz 0 0 10))
`)
	pipes, err := query.Pipes(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(pipes) != 1 {
		t.Fatalf("expected 1 pipe, got %d", len(pipes))
	}
	p := pipes[0]
	if p.Name != "P1" {
		t.Errorf("expected name P1, got %q", p.Name)
	}
	if p.Diameter != 0.5 {
		t.Errorf("expected diameter 0.5, got %f", p.Diameter)
	}
	pts, err := connector.Points(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []v3.Vec{{}, {Z: 10}}
	if len(pts) != 2 || pts[0] != want[0] || pts[1] != want[1] {
		t.Errorf("expected %v, got %v", want, pts)
	}
}

func TestPipeConnectorsList(t *testing.T) {
	doc := mustEvaluate(t, `
(pipe "odd" :diameter 1 :connectors (list (xyz 0 0 0) (xyz 1 0 0) (xyz 2 0 0)))
`)
	pipes, _ := query.Pipes(doc)
	pts, err := connector.Points(pipes[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 3 {
		t.Errorf("expected 3 connectors, got %d", len(pts))
	}
}

func TestFittingVariants(t *testing.T) {
	doc := mustEvaluate(t, `
(def a (xyz 0 0 10))
(fitting "E1" :family "Elbow - Generic" :connectors (list a (xyz 1 0 10)))
(fitting "C1" :family "Cap" :connectors (list (xyz 5 5 5)))
(fitting "X1" :family "Mystery" :mep false)
(fitting-type "Elbow - Generic")
`)
	fittings, err := query.Fittings(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(fittings) != 3 {
		t.Fatalf("expected 3 fitting instances, got %d", len(fittings))
	}
	if doc.ElementCount() != 4 {
		t.Errorf("expected 4 elements including the type, got %d", doc.ElementCount())
	}

	e1 := fittings[0]
	if e1.FamilyName != "Elbow - Generic" {
		t.Errorf("expected family 'Elbow - Generic', got %q", e1.FamilyName)
	}
	src, err := connector.Source(e1)
	if err != nil {
		t.Fatal(err)
	}
	if src.Capability() != model.CapabilityMEPModel {
		t.Errorf("expected mep-model capability, got %s", src.Capability())
	}
	if src.Connectors().Size() != 2 {
		t.Errorf("expected 2 connectors, got %d", src.Connectors().Size())
	}

	if len(fittings[2].Sources) != 0 {
		t.Error("fitting with :mep false should expose no capability")
	}
}

func TestPipingSystemAndEquipment(t *testing.T) {
	doc := mustEvaluate(t, `
(piping-system "Domestic Cold Water" :connectors (list (xyz 0 0 0)))
(equipment "Pump 1")
`)
	elems, _ := doc.Elements()
	if len(elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elems))
	}
	sys := elems[0]
	if sys.Category != model.CategoryPipingSystems {
		t.Errorf("expected piping-systems category, got %s", sys.Category)
	}
	src, err := connector.Source(sys)
	if err != nil {
		t.Fatal(err)
	}
	if src.Capability() != model.CapabilitySystem {
		t.Errorf("expected system capability, got %s", src.Capability())
	}
	if len(elems[1].Sources) != 0 {
		t.Error("equipment should expose no capability")
	}
}

func TestElementOrderFollowsScript(t *testing.T) {
	doc := mustEvaluate(t, `
(pipe "b" :diameter 1 :from (xyz 0 0 0) :to (xyz 1 0 0))
(pipe "a" :diameter 1 :from (xyz 1 0 0) :to (xyz 2 0 0))
(pipe "c" :diameter 1 :from (xyz 2 0 0) :to (xyz 3 0 0))
`)
	pipes, _ := query.Pipes(doc)
	got := []string{pipes[0].Name, pipes[1].Name, pipes[2].Name}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		substr string
	}{
		{"pipe without name", `(pipe :diameter 1)`, "name"},
		{"pipe without ends", `(pipe "P" :diameter 1)`, ":from and :to"},
		{"pipe with both forms", `(pipe "P" :from (xyz 0 0 0) :to (xyz 1 0 0) :connectors (list))`, "not both"},
		{"pipe bad diameter", `(pipe "P" :diameter "big" :from (xyz 0 0 0) :to (xyz 1 0 0))`, "diameter"},
		{"xyz arity", `(xyz 1 2)`, "exactly 3"},
		{"xyz non-number", `(xyz 1 2 "z")`, "expected number"},
		{"connector not a point", `(fitting "F" :connectors (list 1 2))`, "expected xyz point"},
		{"mep not bool", `(fitting "F" :mep 1)`, "true or false"},
		{"connectors without mep", `(fitting "F" :mep false :connectors (list (xyz 0 0 0)))`, "MEP model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrorsFor(t, tt.source)
			if !strings.Contains(errs[0].Message, tt.substr) {
				t.Errorf("expected error containing %q, got %q", tt.substr, errs[0].Message)
			}
		})
	}
}

func TestCommentsAndVariables(t *testing.T) {
	doc := mustEvaluate(t, `
;; riser
(def d 0.25)
(pipe "riser" :diameter d :from (xyz 0 0 0) :to (xyz 0 0 12)) ; vertical
`)
	pipes, _ := query.Pipes(doc)
	if len(pipes) != 1 || pipes[0].Diameter != 0.25 {
		t.Fatalf("expected one 0.25 ft pipe, got %v", pipes)
	}
}
