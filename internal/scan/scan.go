// Package scan walks directory targets and emits every file eligible for
// linting.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"syl-lint/internal/fsutil"
	"syl-lint/internal/ignore"
)

type Options struct {
	CWD            string
	Extensions     []string
	IgnoreEnabled  bool
	IgnorePatterns []string
}

// EmitFunc receives the path of one eligible file, joined onto the directory
// argument exactly as the caller spelled it.
type EmitFunc func(path string) error

type Walker struct {
	fs      billy.Filesystem
	locator *ignore.Locator
	opts    Options
	log     *zap.Logger
	exts    map[string]struct{}
}

func NewWalker(fsys billy.Filesystem, locator *ignore.Locator, opts Options, log *zap.Logger) *Walker {
	if log == nil {
		log = zap.NewNop()
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Walker{fs: fsys, locator: locator, opts: opts, log: log, exts: exts}
}

type walkContext struct {
	root    string
	absRoot string
	barrier *barrier
	sources []*ignore.Source
	emit    EmitFunc
	emitted int
}

func (wc *walkContext) emitFile(path string) error {
	if !wc.barrier.Cleared() {
		return errBarrierPending
	}
	wc.emitted++
	return wc.emit(path)
}

// Walk calls emit for every eligible file under dir in discovery order.
// Nothing is filtered or emitted before the ancestor ignore files are loaded.
func (w *Walker) Walk(ctx context.Context, dir string, emit EmitFunc) error {
	wc := &walkContext{
		root:    dir,
		absRoot: fsutil.Abs(w.opts.CWD, dir),
		barrier: newBarrier(ctx),
		emit:    emit,
	}
	log := w.log.With(zap.String("dir", wc.absRoot))
	log.Debug("walk started")

	if w.opts.IgnoreEnabled {
		w.loadIgnoreSources(wc)
	}
	// listing the root overlaps with the ignore loads scheduled above
	entries, listErr := fsutil.ReadDir(w.fs, wc.absRoot)
	if err := wc.barrier.Wait(); err != nil {
		return err
	}
	if listErr != nil {
		return listErr
	}

	m := w.baseMatcher(wc)
	if err := w.visit(ctx, wc, wc.absRoot, wc.root, entries, m); err != nil {
		return err
	}
	log.Debug("walk finished", zap.Int("files", wc.emitted))
	return nil
}

// loadIgnoreSources schedules the lookup of the root's own ignore file and
// those of all its ancestors, then one load per file found. Each load
// registers its source by index so the combined order stays nearest first.
func (w *Walker) loadIgnoreSources(wc *walkContext) {
	wc.barrier.Go(func(ctx context.Context) error {
		paths, err := w.locator.FindAll(wc.absRoot)
		if err != nil {
			return err
		}
		wc.sources = make([]*ignore.Source, len(paths))
		for i, p := range paths {
			wc.barrier.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := w.locator.Load(p)
				if err != nil {
					return err
				}
				wc.sources[i] = s
				return nil
			})
		}
		return nil
	})
}

func (w *Walker) baseMatcher(wc *walkContext) *ignore.Matcher {
	if !w.opts.IgnoreEnabled {
		return ignore.NewMatcher()
	}
	m := ignore.NewMatcher(wc.sources...)
	m = m.With(ignore.NewSource(wc.absRoot, "", ignore.CompileAll(ignore.DefaultPatterns)))
	if len(w.opts.IgnorePatterns) > 0 {
		base := w.opts.CWD
		if base == "" {
			base = wc.absRoot
		}
		m = m.With(ignore.NewSource(base, "", ignore.CompileAll(w.opts.IgnorePatterns)))
	}
	return m
}

func (w *Walker) visit(ctx context.Context, wc *walkContext, absDir, dir string, entries []os.FileInfo, m *ignore.Matcher) error {
	for _, fi := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fi.Name()
		absPath := filepath.Join(absDir, name)
		path := filepath.Join(dir, name)

		if fi.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if m.Ignored(absPath, fi.IsDir()) {
			w.log.Debug("ignored", zap.String("path", absPath))
			continue
		}
		if fi.IsDir() {
			sub := m
			if w.opts.IgnoreEnabled {
				local, err := w.locator.Local(absPath)
				if err != nil {
					return err
				}
				if local != "" {
					s, err := w.locator.Load(local)
					if err != nil {
						return err
					}
					sub = m.With(s)
				}
			}
			children, err := fsutil.ReadDir(w.fs, absPath)
			if err != nil {
				return err
			}
			if err := w.visit(ctx, wc, absPath, path, children, sub); err != nil {
				return err
			}
			continue
		}
		if !fi.Mode().IsRegular() || !w.Eligible(name) {
			continue
		}
		if err := wc.emitFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) Eligible(name string) bool {
	_, ok := w.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}
