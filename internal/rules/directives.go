package rules

import (
	"regexp"
	"strings"
)

var directiveRegex = regexp.MustCompile(`(?://|/\*)\s*syl-lint-(disable-next-line|disable-line|disable|enable)\b([^*\n]*)`)

type suppression struct {
	from, to int // to == 0 means until end of file
	rules    map[string]bool
}

type suppressions []suppression

// parseDirectives collects syl-lint-disable / syl-lint-enable blocks and
// single-line disables. An empty rule list applies to every rule.
func parseDirectives(lines []string) suppressions {
	var out suppressions
	open := make([]int, 0)
	for i, ln := range lines {
		for _, m := range directiveRegex.FindAllStringSubmatch(ln, -1) {
			rules := ruleSet(m[2])
			line := i + 1
			switch m[1] {
			case "disable-line":
				out = append(out, suppression{from: line, to: line, rules: rules})
			case "disable-next-line":
				out = append(out, suppression{from: line + 1, to: line + 1, rules: rules})
			case "disable":
				out = append(out, suppression{from: line, rules: rules})
				open = append(open, len(out)-1)
			case "enable":
				still := open[:0]
				for _, idx := range open {
					if closes(out[idx].rules, rules) {
						out[idx].to = line
						continue
					}
					still = append(still, idx)
				}
				open = still
			}
		}
	}
	return out
}

func closes(block, enable map[string]bool) bool {
	if len(enable) == 0 {
		return true
	}
	for id := range enable {
		if block[id] {
			return true
		}
	}
	return false
}

func ruleSet(list string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(list, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out[id] = true
		}
	}
	return out
}

func (s suppressions) suppressed(m Message) bool {
	if m.Fatal {
		return false
	}
	for _, sp := range s {
		if m.Line < sp.from || (sp.to != 0 && m.Line > sp.to) {
			continue
		}
		if len(sp.rules) == 0 || sp.rules[m.RuleID] {
			return true
		}
	}
	return false
}
