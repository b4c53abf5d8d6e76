package ignore

import (
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"syl-lint/internal/fsutil"
)

// Locator probes every directory and reads every ignore file at most once.
// Use one per run.
type Locator struct {
	fs       billy.Filesystem
	name     string
	override string
	base     string
	log      *zap.Logger

	mu      sync.Mutex
	local   map[string]string
	chains  map[string][]string
	sources map[string]*Source
}

type LocatorOption func(*Locator)

func WithFileName(name string) LocatorOption {
	return func(l *Locator) {
		if name != "" {
			l.name = name
		}
	}
}

// WithOverride makes path the only ignore file of the run; ancestors are
// never probed. Its patterns are anchored at base, not at the file's own
// directory.
func WithOverride(path, base string) LocatorOption {
	return func(l *Locator) {
		l.override = filepath.Clean(path)
		l.base = base
	}
}

func WithLogger(log *zap.Logger) LocatorOption {
	return func(l *Locator) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLocator(fsys billy.Filesystem, opts ...LocatorOption) *Locator {
	l := &Locator{
		fs:      fsys,
		name:    FileName,
		log:     zap.NewNop(),
		local:   map[string]string{},
		chains:  map[string][]string{},
		sources: map[string]*Source{},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Locator) Local(dir string) (string, error) {
	if l.override != "" {
		return "", nil
	}
	dir = filepath.Clean(dir)
	l.mu.Lock()
	p, ok := l.local[dir]
	l.mu.Unlock()
	if ok {
		return p, nil
	}

	candidate := filepath.Join(dir, l.name)
	found, err := fsutil.Probe(l.fs, candidate)
	if err != nil {
		return "", err
	}
	if found {
		p = candidate
		l.log.Debug("ignore file found", zap.String("path", p))
	}
	l.mu.Lock()
	l.local[dir] = p
	l.mu.Unlock()
	return p, nil
}

// FindAll returns the ignore files of dir and all of its ancestors up to the
// filesystem root, nearest first.
func (l *Locator) FindAll(dir string) ([]string, error) {
	if l.override != "" {
		return []string{l.override}, nil
	}
	dir = filepath.Clean(dir)

	// climb until a directory whose chain is already known
	var pending []string
	var tail []string
	cur := dir
	for {
		l.mu.Lock()
		chain, ok := l.chains[cur]
		l.mu.Unlock()
		if ok {
			tail = chain
			break
		}
		pending = append(pending, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	// fill the memo from the top down so every visited directory is cached
	for i := len(pending) - 1; i >= 0; i-- {
		d := pending[i]
		own, err := l.Local(d)
		if err != nil {
			return nil, err
		}
		chain := tail
		if own != "" {
			chain = make([]string, 0, len(tail)+1)
			chain = append(chain, own)
			chain = append(chain, tail...)
		}
		l.mu.Lock()
		l.chains[d] = chain
		l.mu.Unlock()
		tail = chain
	}
	out := make([]string, len(tail))
	copy(out, tail)
	return out, nil
}

func (l *Locator) Load(path string) (*Source, error) {
	path = filepath.Clean(path)
	l.mu.Lock()
	s, ok := l.sources[path]
	l.mu.Unlock()
	if ok {
		return s, nil
	}

	data, err := fsutil.ReadFile(l.fs, path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if path == l.override && l.base != "" {
		dir = l.base
	}
	s = NewSource(dir, path, Parse(data))
	l.log.Debug("ignore file loaded", zap.String("path", path), zap.Int("patterns", len(s.Patterns)))

	l.mu.Lock()
	if prev, ok := l.sources[path]; ok {
		s = prev
	} else {
		l.sources[path] = s
	}
	l.mu.Unlock()
	return s, nil
}
