package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/pipesys/internal/config"
	"github.com/chazu/pipesys/pkg/classify"
	"github.com/chazu/pipesys/pkg/report"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDefaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestAppLoadAndReport(t *testing.T) {
	app := NewApp(mustDefaultConfig(t), quietLogger())
	doc, err := app.Load(exampleNetwork)
	require.NoError(t, err)
	assert.Equal(t, exampleNetwork, doc.Title)
	assert.True(t, doc.Frozen())

	var buf report.LineBuffer
	sum, err := app.Report(doc, &buf)
	require.NoError(t, err)
	assert.Equal(t, exampleReport, buf.Lines())
	assert.Equal(t, 1, sum.Roles[classify.Plug])
	assert.Equal(t, 1, sum.Roles[classify.Elbow])
	assert.True(t, sum.OK())
}

func TestAppLoadSourceScriptError(t *testing.T) {
	app := NewApp(mustDefaultConfig(t), quietLogger())
	_, err := app.LoadSource("broken", `(xyz 1 2)`)
	require.Error(t, err)

	se, ok := err.(*ScriptError)
	require.True(t, ok, "expected *ScriptError, got %T", err)
	require.Len(t, se.Errors, 1)
	assert.Contains(t, se.Error(), "broken: 1 evaluation error\n")
	assert.Contains(t, se.Error(), "exactly 3")
}

func TestAppReportClosedDocument(t *testing.T) {
	app := NewApp(mustDefaultConfig(t), quietLogger())
	doc, err := app.LoadSource("closing", `(pipe "P" :diameter 1 :from (xyz 0 0 0) :to (xyz 1 0 0))`)
	require.NoError(t, err)
	doc.Close()

	_, err = app.Report(doc, &report.LineBuffer{})
	require.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	var buf strings.Builder
	printSummary(&buf, &report.Summary{
		RunID:     "run-1",
		Pipes:     1,
		Fittings:  3,
		Roles:     map[classify.Role]int{classify.Tee: 2},
		Anomalies: []report.Anomaly{{Kind: report.AnomalyFitting, Name: "x"}},
	}, false)
	assert.Equal(t, "report run-1: 1 pipe, 3 fittings (2 tee), 1 anomaly\n", buf.String())
}

func fileCLI(t *testing.T, out string) *cli {
	t.Helper()
	cfg := mustDefaultConfig(t)
	cfg.Report.Out = out
	return &cli{cfg: cfg, log: quietLogger()}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOpenOutCommitsOnSuccess(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.txt")

	w, finish, err := fileCLI(t, out).openOut()
	require.NoError(t, err)
	_, err = io.WriteString(w, "1 pipe:\n")
	require.NoError(t, err)
	require.NoError(t, finish(nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1 pipe:\n", string(data))
	assert.Equal(t, []string{"report.txt"}, dirEntries(t, dir))
}

func TestOpenOutDiscardsFailedRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(out, []byte("previous\n"), 0o644))

	w, finish, err := fileCLI(t, out).openOut()
	require.NoError(t, err)
	_, err = io.WriteString(w, "1 pipe:\n  partial")
	require.NoError(t, err)

	runErr := errors.New("document closed")
	assert.Equal(t, runErr, finish(runErr))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
	assert.Equal(t, []string{"report.txt"}, dirEntries(t, dir))
}

func TestOpenOutFailedRunCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.txt")

	_, finish, err := fileCLI(t, out).openOut()
	require.NoError(t, err)
	require.Error(t, finish(errors.New("sink failed")))

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, dirEntries(t, dir))
}
