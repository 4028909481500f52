package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chazu/pipesys/pkg/model"
)

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model.pipes>",
		Short: "Check a model script for structural and topology defects",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runValidate,
	}
}

func (c *cli) runValidate(cmd *cobra.Command, args []string) error {
	doc, err := NewApp(c.cfg, c.log).Load(args[0])
	if err != nil {
		return err
	}
	findings, err := model.Validate(doc)
	if err != nil {
		return err
	}

	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	okColor := color.New(color.FgGreen)
	for _, col := range []*color.Color{errColor, warnColor, okColor} {
		setColor(col, c.useColor())
	}

	var nErr, nWarn int
	for _, f := range findings {
		col := warnColor
		if f.Severity == model.SeverityError {
			col = errColor
			nErr++
		} else {
			nWarn++
		}
		col.Fprintln(c.stdout, f.Error())
	}

	if len(findings) == 0 {
		okColor.Fprintf(c.stderr, "%s: ok\n", doc.Title)
		return nil
	}
	fmt.Fprintf(c.stderr, "%s: %d error(s), %d warning(s)\n", doc.Title, nErr, nWarn)
	if model.HasErrors(findings) {
		return errValidationFailed
	}
	return nil
}
