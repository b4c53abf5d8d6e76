package ignore

import (
	"path/filepath"
	"strings"
)

// Source is shared across walks and never mutated.
type Source struct {
	Dir      string
	Path     string
	Patterns []Pattern
}

func NewSource(dir, path string, patterns []Pattern) *Source {
	return &Source{Dir: filepath.Clean(dir), Path: path, Patterns: patterns}
}

// Match reports whether absPath, located under the source directory, is
// matched by one of its patterns. Paths outside the directory never match.
func (s *Source) Match(absPath string, isDir bool) bool {
	rel, err := filepath.Rel(s.Dir, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range s.Patterns {
		if p.Match(rel, isDir) {
			return true
		}
	}
	return false
}

type Matcher struct {
	sources []*Source
}

func NewMatcher(sources ...*Source) *Matcher {
	m := &Matcher{}
	return m.With(sources...)
}

// With returns a matcher extended by sources; m itself is left untouched so
// sibling subtrees keep their own view.
func (m *Matcher) With(sources ...*Source) *Matcher {
	out := &Matcher{sources: make([]*Source, 0, len(m.sources)+len(sources))}
	out.sources = append(out.sources, m.sources...)
	for _, s := range sources {
		if s != nil {
			out.sources = append(out.sources, s)
		}
	}
	return out
}

func (m *Matcher) Sources() []*Source {
	return m.sources
}

func (m *Matcher) Ignored(absPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	for _, s := range m.sources {
		if s.Match(absPath, isDir) {
			return true
		}
	}
	return false
}
