package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chazu/pipesys/internal/config"
	"github.com/chazu/pipesys/pkg/engine"
	"github.com/chazu/pipesys/pkg/model"
	"github.com/chazu/pipesys/pkg/report"
)

// App runs the model script → document → report pipeline.
type App struct {
	engine    *engine.Engine
	generator *report.Generator
	log       *slog.Logger
}

// ScriptError carries the evaluation errors of a model script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d evaluation error", e.Path, len(e.Errors))
	if len(e.Errors) != 1 {
		b.WriteString("s")
	}
	for _, ee := range e.Errors {
		fmt.Fprintf(&b, "\n  %s:%d:%d: %s", e.Path, ee.Line, ee.Col, ee.Message)
	}
	return b.String()
}

// NewApp wires an engine and a report generator from cfg.
func NewApp(cfg config.Config, log *slog.Logger) *App {
	return &App{
		engine:    engine.NewEngine(engine.WithTimeout(cfg.Eval.Timeout), engine.WithLogger(log)),
		generator: report.New(report.WithLogger(log)),
		log:       log,
	}
}

// Load reads and evaluates the model script at path.
func (a *App) Load(path string) (*model.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return a.LoadSource(path, string(source))
}

// LoadSource evaluates source into a frozen document titled title.
func (a *App) LoadSource(title, source string) (*model.Document, error) {
	doc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Path: title, Errors: evalErrs}
	}
	doc.Title = title
	a.log.Debug("model loaded", "document", title, "elements", doc.ElementCount())
	return doc, nil
}

// Report runs the generator over doc.
func (a *App) Report(doc *model.Document, sink report.Sink) (*report.Summary, error) {
	return a.generator.Generate(doc, sink)
}
