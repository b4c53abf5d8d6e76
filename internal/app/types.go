package app

import (
	"syl-lint/internal/config"
	"syl-lint/internal/rules"
)

// Result holds the messages of one linted file.
type Result struct {
	FilePath     string          `json:"filePath"`
	Messages     []rules.Message `json:"messages"`
	ErrorCount   int             `json:"errorCount"`
	WarningCount int             `json:"warningCount"`
}

func newResult(path string, msgs []rules.Message) Result {
	r := Result{FilePath: path, Messages: msgs}
	if r.Messages == nil {
		r.Messages = []rules.Message{}
	}
	for _, m := range r.Messages {
		switch {
		case m.Fatal || m.Severity == config.SeverityError:
			r.ErrorCount++
		case m.Severity == config.SeverityWarn:
			r.WarningCount++
		}
	}
	return r
}

type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errorCount"`
	Warnings int `json:"warningCount"`
	Fatal    int `json:"fatalCount"`
}

func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		s.Errors += r.ErrorCount
		s.Warnings += r.WarningCount
		for _, m := range r.Messages {
			if m.Fatal {
				s.Fatal++
			}
		}
	}
	return s
}

// ErrorsOnly drops warnings from every result. Results left without
// messages are kept so the file list stays complete.
func ErrorsOnly(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		msgs := make([]rules.Message, 0, len(r.Messages))
		for _, m := range r.Messages {
			if m.Fatal || m.Severity == config.SeverityError {
				msgs = append(msgs, m)
			}
		}
		out = append(out, newResult(r.FilePath, msgs))
	}
	return out
}
