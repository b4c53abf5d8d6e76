package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"syl-lint/internal/app"
)

var formats = []string{"stylish", "json", "ndjson"}

func ValidateFormat(v string) error {
	for _, f := range formats {
		if v == f {
			return nil
		}
	}
	return fmt.Errorf("--format 仅支持 %s", strings.Join(formats, "/"))
}

type Options struct {
	Color bool
}

func Write(w io.Writer, format string, results []app.Result, opts Options) error {
	switch format {
	case "stylish":
		return writeStylish(w, results, opts.Color)
	case "ndjson":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, r := range results {
			if err := enc.Encode(resultEvent(r)); err != nil {
				return err
			}
		}
		return enc.Encode(summaryEvent(app.Summarize(results)))
	case "json":
		if results == nil {
			results = []app.Result{}
		}
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return fmt.Errorf("不支持的输出格式：%s", format)
	}
}

func resultEvent(r app.Result) map[string]any {
	return map[string]any{
		"type":         "result",
		"filePath":     r.FilePath,
		"messages":     r.Messages,
		"errorCount":   r.ErrorCount,
		"warningCount": r.WarningCount,
	}
}

func summaryEvent(s app.Summary) map[string]any {
	return map[string]any{
		"type":         "summary",
		"files":        s.Files,
		"errorCount":   s.Errors,
		"warningCount": s.Warnings,
		"fatalCount":   s.Fatal,
	}
}

// IsTerminal reports whether w is a terminal that can render colors.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
