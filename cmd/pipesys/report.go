package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/pipesys/pkg/report"
)

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <model.pipes>",
		Short: "Write the pipe and fitting report for a model script",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runReport,
	}
	cmd.Flags().String("out", "", "write the report to this file instead of stdout")
	cmd.Flags().Bool("log-sink", false, "also emit every report line as a log record")
	return cmd
}

func (c *cli) runReport(cmd *cobra.Command, args []string) error {
	app := NewApp(c.cfg, c.log)
	doc, err := app.Load(args[0])
	if err != nil {
		return err
	}

	out, finish, err := c.openOut()
	if err != nil {
		return err
	}

	ws := report.NewWriterSink(out)
	var sink report.Sink = ws
	if c.cfg.Report.LogSink {
		sink = report.MultiSink{ws, report.LogSink{Logger: c.log, Level: slog.LevelInfo}}
	}

	sum, genErr := app.Report(doc, sink)
	if err := ws.Flush(); err != nil && genErr == nil {
		genErr = fmt.Errorf("flush report: %w", err)
	}
	if err := finish(genErr); err != nil {
		return err
	}
	printSummary(c.stderr, sum, c.useColor())
	return nil
}

// openOut returns the configured report destination and a finish func to
// call with the run's error. A file destination is written to a temporary
// file beside it and renamed into place only when the run succeeds, so a
// failed run leaves any previous report untouched.
func (c *cli) openOut() (io.Writer, func(error) error, error) {
	path := c.cfg.Report.Out
	if path == "" || path == "-" {
		return c.stdout, func(err error) error { return err }, nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, nil, fmt.Errorf("open report output: %w", err)
	}
	discard := func() {
		if err := os.Remove(f.Name()); err != nil {
			c.log.Error("remove partial report", "path", f.Name(), "error", err)
		}
	}
	return f, func(runErr error) error {
		closeErr := f.Close()
		if runErr != nil {
			discard()
			return runErr
		}
		if closeErr != nil {
			discard()
			return fmt.Errorf("close report output: %w", closeErr)
		}
		if err := os.Rename(f.Name(), path); err != nil {
			discard()
			return fmt.Errorf("write report output: %w", err)
		}
		return nil
	}, nil
}
