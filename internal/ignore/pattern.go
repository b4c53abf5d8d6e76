// Package ignore resolves .syllintignore files. Patterns of all applicable
// files are unioned; negated lines are dropped.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const FileName = ".syllintignore"

// DefaultPatterns are applied under every walked directory while ignoring is
// enabled.
var DefaultPatterns = []string{
	".git/",
	".svn/",
	"node_modules/",
	"bower_components/",
}

type Pattern struct {
	Source  string
	glob    string
	dirOnly bool
}

// Compile returns ok=false for blank lines, comments, negations and invalid
// globs.
func Compile(line string) (p Pattern, ok bool) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "!") {
		return Pattern{}, false
	}
	g := filepath.ToSlash(raw)
	dirOnly := strings.HasSuffix(g, "/")
	g = strings.TrimRight(g, "/")
	// a slash anywhere but the end anchors the pattern to its base directory
	anchored := strings.Contains(g, "/")
	g = strings.TrimPrefix(g, "/")
	if g == "" {
		return Pattern{}, false
	}
	if !anchored {
		g = "**/" + g
	}
	if !doublestar.ValidatePattern(g) {
		return Pattern{}, false
	}
	return Pattern{Source: raw, glob: g, dirOnly: dirOnly}, true
}

func Parse(data []byte) []Pattern {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return CompileAll(lines)
}

func CompileAll(lines []string) []Pattern {
	out := make([]Pattern, 0, len(lines))
	for _, ln := range lines {
		if p, ok := Compile(ln); ok {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether rel, a slash-separated path relative to the pattern's
// base directory, is matched either directly or through one of its parent
// directories.
func (p Pattern) Match(rel string, isDir bool) bool {
	if (isDir || !p.dirOnly) && p.match(rel) {
		return true
	}
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && p.match(rel[:i]) {
			return true
		}
	}
	return false
}

func (p Pattern) match(rel string) bool {
	ok, err := doublestar.Match(p.glob, rel)
	return err == nil && ok
}
