package app

import (
	"context"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"

	"syl-lint/internal/fsutil"
	"syl-lint/internal/scan"
)

// Dispatcher routes one command-line target to the walker or the processor.
type Dispatcher struct {
	fs        billy.Filesystem
	cwd       string
	walker    *scan.Walker
	processor *Processor
}

func NewDispatcher(fsys billy.Filesystem, cwd string, walker *scan.Walker, processor *Processor) *Dispatcher {
	return &Dispatcher{fs: fsys, cwd: cwd, walker: walker, processor: processor}
}

// Dispatch lints target. A missing target that does not end in a path
// separator is treated as a file and yields a degraded Result; every other
// stat failure is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, target string) ([]Result, error) {
	info, err := fsutil.Stat(d.fs, fsutil.Abs(d.cwd, target))
	if err != nil {
		if fsutil.IsNotExist(err) && !hasTrailingSeparator(target) {
			return d.processFile(target)
		}
		return nil, err
	}
	if !info.IsDir() {
		return d.processFile(target)
	}

	results := make([]Result, 0)
	err = d.walker.Walk(ctx, target, func(path string) error {
		r, err := d.processor.Process(path)
		if err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Dispatcher) processFile(target string) ([]Result, error) {
	r, err := d.processor.Process(target)
	if err != nil {
		return nil, err
	}
	return []Result{r}, nil
}

func hasTrailingSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator))
}
