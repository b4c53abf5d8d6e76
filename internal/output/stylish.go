package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"syl-lint/internal/app"
	"syl-lint/internal/config"
	"syl-lint/internal/rules"
	"syl-lint/internal/textutil"
)

type palette struct {
	path, err, warn, dim, errSum, warnSum *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path: color.New(color.Underline),
		err:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		dim:  color.New(color.Faint),

		errSum:  color.New(color.FgRed, color.Bold),
		warnSum: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.err, p.warn, p.dim, p.errSum, p.warnSum} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// writeStylish prints one block per file with problems, aligned in columns,
// followed by a problem count.
func writeStylish(w io.Writer, results []app.Result, colored bool) error {
	p := newPalette(colored)
	var b strings.Builder
	s := app.Summarize(results)

	for _, r := range results {
		if len(r.Messages) == 0 {
			continue
		}
		posW, sevW, msgW := 0, 0, 0
		for _, m := range r.Messages {
			posW = max(posW, textutil.DisplayWidth(position(m.Line, m.Column)))
			sevW = max(sevW, textutil.DisplayWidth(severityLabel(m)))
			msgW = max(msgW, textutil.DisplayWidth(m.Message))
		}
		fmt.Fprintf(&b, "\n%s\n", p.path.Sprint(r.FilePath))
		for _, m := range r.Messages {
			sev := textutil.PadRight(severityLabel(m), sevW)
			if m.Fatal || m.Severity == config.SeverityError {
				sev = p.err.Sprint(sev)
			} else {
				sev = p.warn.Sprint(sev)
			}
			line := fmt.Sprintf("  %s  %s  %s  %s",
				p.dim.Sprint(textutil.PadRight(position(m.Line, m.Column), posW)),
				sev,
				textutil.PadRight(m.Message, msgW),
				p.dim.Sprint(m.RuleID),
			)
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteByte('\n')
		}
	}

	total := s.Errors + s.Warnings
	if total > 0 {
		summary := fmt.Sprintf("✖ %d %s (%d %s, %d %s)",
			total, plural(total, "problem"),
			s.Errors, plural(s.Errors, "error"),
			s.Warnings, plural(s.Warnings, "warning"))
		if s.Errors > 0 {
			summary = p.errSum.Sprint(summary)
		} else {
			summary = p.warnSum.Sprint(summary)
		}
		fmt.Fprintf(&b, "\n%s\n", summary)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func position(line, col int) string {
	return fmt.Sprintf("%d:%d", line, col)
}

func severityLabel(m rules.Message) string {
	if m.Fatal || m.Severity == config.SeverityError {
		return "error"
	}
	return "warning"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
