package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chazu/pipesys/internal/config"
	"github.com/chazu/pipesys/internal/logging"
)

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	color      string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "pipesys",
		Short: "Piping network diagnostic reports",
		Long: `pipesys evaluates a piping model script and lists every pipe with its
diameter and end points, and every fitting with its role and connectors.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format (text|json)")
	root.PersistentFlags().StringVar(&c.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(c.reportCmd())
	root.AddCommand(c.validateCmd())
	root.AddCommand(c.versionCmd())
	return root
}

// setup loads configuration, applies flag overrides, and builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if cmd.Flags().Changed("out") {
		cfg.Report.Out, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("log-sink") {
		cfg.Report.LogSink, _ = cmd.Flags().GetBool("log-sink")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("--color %q: want auto, on or off", c.color)
	}

	log, err := logging.New(c.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log
	return nil
}

// useColor resolves the --color flag against the stderr stream.
func (c *cli) useColor() bool {
	return c.color == "on" || (c.color == "auto" && isTerminal(c.stderr))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// errValidationFailed makes validate exit non-zero without repeating the findings.
var errValidationFailed = errors.New("validation failed")
