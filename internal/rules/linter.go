// Package rules implements the linter that turns file text and an effective
// config into messages.
package rules

import (
	"fmt"
	"sort"
	"sync"

	"syl-lint/internal/config"
	"syl-lint/internal/textutil"
)

type Message struct {
	RuleID   string          `json:"ruleId"`
	Severity config.Severity `json:"severity"`
	Message  string          `json:"message"`
	Line     int             `json:"line"`
	Column   int             `json:"column"`
	Fatal    bool            `json:"fatal,omitempty"`
	Source   string          `json:"source,omitempty"`
}

type RuleFunc func(ctx *Context)

type Context struct {
	Path    string
	Text    string
	Lines   []string
	Code    []string // Lines with comments and string literals blanked
	Config  *config.Config
	Setting config.RuleSetting

	id     string
	report func(Message)
}

func (c *Context) Report(line, column int, format string, args ...any) {
	src := ""
	if line >= 1 && line <= len(c.Lines) {
		src = c.Lines[line-1]
	}
	c.report(Message{
		RuleID:   c.id,
		Severity: c.Setting.Severity,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
		Source:   src,
	})
}

// Reset must be called before every Verify.
type Linter struct {
	mu       sync.Mutex
	rules    map[string]RuleFunc
	messages []Message
}

func NewLinter() *Linter {
	l := &Linter{rules: map[string]RuleFunc{}}
	for id, fn := range builtins {
		l.rules[id] = fn
	}
	return l
}

func (l *Linter) Define(id string, fn RuleFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[id] = fn
}

func (l *Linter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// Verify lints text with cfg. Content that is binary or cannot be decoded
// yields a single fatal message.
func (l *Linter) Verify(text string, cfg *config.Config, path string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := []byte(text)
	if textutil.DetectBinary(data) {
		l.messages = append(l.messages, fatal("Parsing error: binary content"))
		return l.snapshot()
	}
	dec, err := textutil.Decode(data)
	if err != nil {
		l.messages = append(l.messages, fatal("Parsing error: "+err.Error()))
		return l.snapshot()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	lines := textutil.SplitLines(dec.Text)
	ctx := &Context{
		Path:   path,
		Text:   dec.Text,
		Lines:  lines,
		Code:   maskCode(lines),
		Config: cfg,
	}
	sup := parseDirectives(lines)

	found := make([]Message, 0)
	ctx.report = func(m Message) {
		if sup.suppressed(m) {
			return
		}
		found = append(found, m)
	}

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		setting := cfg.Rules[id]
		if !setting.Enabled() {
			continue
		}
		fn, ok := l.rules[id]
		if !ok {
			found = append(found, Message{
				RuleID:   id,
				Severity: setting.Severity,
				Message:  fmt.Sprintf("Definition for rule '%s' was not found", id),
				Line:     1,
				Column:   1,
			})
			continue
		}
		ctx.id = id
		ctx.Setting = setting
		fn(ctx)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Line != found[j].Line {
			return found[i].Line < found[j].Line
		}
		return found[i].Column < found[j].Column
	})
	l.messages = append(l.messages, found...)
	return l.snapshot()
}

func (l *Linter) snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func fatal(msg string) Message {
	return Message{
		Severity: config.SeverityError,
		Message:  msg,
		Fatal:    true,
	}
}
