package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "off":
		return SeverityOff, nil
	case "1", "warn", "warning":
		return SeverityWarn, nil
	case "2", "error":
		return SeverityError, nil
	}
	return SeverityOff, fmt.Errorf("无效的规则级别：%q（可选 0/1/2 或 off/warn/error）", v)
}

// RuleSetting is one rule entry: a bare severity or [severity, options...].
type RuleSetting struct {
	Severity Severity
	Options  []any
}

func (r RuleSetting) clone() RuleSetting {
	if r.Options == nil {
		return r
	}
	opts := make([]any, len(r.Options))
	copy(opts, r.Options)
	return RuleSetting{Severity: r.Severity, Options: opts}
}

func (r RuleSetting) Enabled() bool {
	return r.Severity > SeverityOff
}

// IntOption returns options[i] as an int, or def.
func (r RuleSetting) IntOption(i int, def int) int {
	if i >= len(r.Options) {
		return def
	}
	switch v := r.Options[i].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// MapIntOption returns options[i][key] as an int, or def.
func (r RuleSetting) MapIntOption(i int, key string, def int) int {
	if i >= len(r.Options) {
		return def
	}
	m, ok := r.Options[i].(map[string]any)
	if !ok {
		return def
	}
	return RuleSetting{Options: []any{m[key]}}.IntOption(0, def)
}

func (r *RuleSetting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		sev, err := ParseSeverity(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = RuleSetting{Severity: sev}
		return nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return fmt.Errorf("line %d: 规则配置不能是空数组", node.Line)
		}
		sev, err := ParseSeverity(node.Content[0].Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		opts := make([]any, 0, len(node.Content)-1)
		for _, n := range node.Content[1:] {
			var v any
			if err := n.Decode(&v); err != nil {
				return err
			}
			opts = append(opts, v)
		}
		*r = RuleSetting{Severity: sev, Options: opts}
		return nil
	default:
		return fmt.Errorf("line %d: 规则配置必须是级别或 [级别, 选项...]", node.Line)
	}
}

// ParseRuleFlags parses command-line rule overrides such as
// "max-len: [2, 100]" or "no-console: off". Later values win.
func ParseRuleFlags(values []string) (map[string]RuleSetting, error) {
	out := map[string]RuleSetting{}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		m := map[string]RuleSetting{}
		if err := yaml.Unmarshal([]byte("{"+v+"}"), &m); err != nil {
			return nil, fmt.Errorf("无效的 --rule 参数 %q：%w", v, err)
		}
		for id, rs := range m {
			out[id] = rs
		}
	}
	return out, nil
}
