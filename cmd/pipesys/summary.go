package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/chazu/pipesys/pkg/classify"
	"github.com/chazu/pipesys/pkg/format"
	"github.com/chazu/pipesys/pkg/report"
)

func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// printSummary writes a one-line account of a report run.
func printSummary(w io.Writer, sum *report.Summary, useColor bool) {
	var roles []string
	for _, r := range []classify.Role{classify.Plug, classify.Elbow, classify.Tee} {
		if n := sum.Roles[r]; n > 0 {
			roles = append(roles, fmt.Sprintf("%d %s", n, r))
		}
	}
	line := fmt.Sprintf("%d pipe%s, %d fitting%s",
		sum.Pipes, format.PluralSuffix(sum.Pipes), sum.Fittings, format.PluralSuffix(sum.Fittings))
	if len(roles) > 0 {
		line += " (" + strings.Join(roles, ", ") + ")"
	}

	status := color.New(color.FgGreen, color.Bold)
	verdict := "ok"
	if !sum.OK() {
		status = color.New(color.FgYellow, color.Bold)
		verdict = fmt.Sprintf("%d anomalies", len(sum.Anomalies))
		if len(sum.Anomalies) == 1 {
			verdict = "1 anomaly"
		}
	}
	setColor(status, useColor)

	fmt.Fprintf(w, "report %s: %s, ", sum.RunID, line)
	status.Fprintln(w, verdict)
}
