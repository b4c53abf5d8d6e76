package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"syl-lint/internal/fsutil"
	"syl-lint/internal/ignore"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func walkAll(t *testing.T, fs billy.Filesystem, opts Options, dir string) ([]string, error) {
	t.Helper()
	w := NewWalker(fs, ignore.NewLocator(fs), opts, nil)
	var got []string
	err := w.Walk(context.Background(), dir, func(p string) error {
		got = append(got, p)
		return nil
	})
	return got, err
}

func jsOpts(cwd string) Options {
	return Options{CWD: cwd, Extensions: []string{".js"}, IgnoreEnabled: true}
}

func TestWalkLocalIgnore(t *testing.T) {
	tmp := t.TempDir()
	mustWrite(t, filepath.Join(tmp, "a.js"), "a")
	mustWrite(t, filepath.Join(tmp, "b.js"), "b")
	mustWrite(t, filepath.Join(tmp, ignore.FileName), "b.js\n")

	got, err := walkAll(t, fsutil.NewOS(), jsOpts(tmp), tmp)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	want := []string{filepath.Join(tmp, "a.js")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWalkAncestorIgnoreAppliesToDescendants(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "root")
	mustWrite(t, filepath.Join(root, ignore.FileName), "sub/*.js\n")
	mustWrite(t, filepath.Join(root, "top.js"), "x")
	mustWrite(t, filepath.Join(root, "sub", "a.js"), "x")
	mustWrite(t, filepath.Join(root, "sub", "b.js"), "x")

	got, err := walkAll(t, fsutil.NewOS(), jsOpts(tmp), "root")
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{filepath.Join("root", "top.js")}) {
		t.Fatalf("unexpected files: %v", got)
	}

	got, err = walkAll(t, fsutil.NewOS(), jsOpts(tmp), filepath.Join("root", "sub"))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ignore file of an ancestor must apply when walking the subdirectory: %v", got)
	}
}

func TestWalkNestedIgnoreFile(t *testing.T) {
	tmp := t.TempDir()
	mustWrite(t, filepath.Join(tmp, "lib", ignore.FileName), "gen.js\n")
	mustWrite(t, filepath.Join(tmp, "lib", "gen.js"), "x")
	mustWrite(t, filepath.Join(tmp, "lib", "main.js"), "x")
	mustWrite(t, filepath.Join(tmp, "gen.js"), "x")

	got, err := walkAll(t, fsutil.NewOS(), jsOpts(tmp), ".")
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	want := []string{"gen.js", filepath.Join("lib", "main.js")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWalkDiscoveryOrderAndDefaults(t *testing.T) {
	tmp := t.TempDir()
	for _, p := range []string{"a.js", "b/c.js", "b/d.JS", "b/readme.md", "e.js", "node_modules/dep/index.js", ".git/hook.js"} {
		mustWrite(t, filepath.Join(tmp, filepath.FromSlash(p)), "x")
	}
	got, err := walkAll(t, fsutil.NewOS(), jsOpts(tmp), tmp)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(tmp, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.js", "b/c.js", "b/d.JS", "e.js"}
	if !reflect.DeepEqual(rel, want) {
		t.Fatalf("got %v want %v", rel, want)
	}
}

func TestWalkIgnoreDisabled(t *testing.T) {
	tmp := t.TempDir()
	mustWrite(t, filepath.Join(tmp, ignore.FileName), "*.js\n")
	mustWrite(t, filepath.Join(tmp, "a.js"), "x")
	mustWrite(t, filepath.Join(tmp, "node_modules", "b.js"), "x")

	opts := jsOpts(tmp)
	opts.IgnoreEnabled = false
	got, err := walkAll(t, fsutil.NewOS(), opts, tmp)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("nothing should be ignored: %v", got)
	}
}

func TestWalkCommandLinePatterns(t *testing.T) {
	tmp := t.TempDir()
	mustWrite(t, filepath.Join(tmp, "src", "a.js"), "x")
	mustWrite(t, filepath.Join(tmp, "src", "a.test.js"), "x")

	opts := jsOpts(tmp)
	opts.IgnorePatterns = []string{"src/*.test.js"}
	got, err := walkAll(t, fsutil.NewOS(), opts, "src")
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{filepath.Join("src", "a.js")}) {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestWalkMissingDirectory(t *testing.T) {
	_, err := walkAll(t, memfs.New(), jsOpts("/"), "/nope")
	var fe *fsutil.FilesystemError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FilesystemError, got %v", err)
	}
}

type deniedFS struct {
	billy.Filesystem
	prefix string
}

func (d *deniedFS) Stat(name string) (os.FileInfo, error) {
	if strings.HasPrefix(name, d.prefix) {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
	}
	return d.Filesystem.Stat(name)
}

func TestWalkFailsWhenAncestorUnreadable(t *testing.T) {
	mem := memfs.New()
	if err := util.WriteFile(mem, "/locked/proj/a.js", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := &deniedFS{Filesystem: mem, prefix: "/locked/" + ignore.FileName}

	emitted := 0
	w := NewWalker(fs, ignore.NewLocator(fs), jsOpts("/"), nil)
	err := w.Walk(context.Background(), "/locked/proj", func(string) error {
		emitted++
		return nil
	})
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if emitted != 0 {
		t.Fatalf("no file may be emitted when ignore loading fails")
	}
}

func TestWalkOverrideIgnorePath(t *testing.T) {
	mem := memfs.New()
	for p, c := range map[string]string{
		"/proj/a.js":               "x",
		"/proj/b.js":               "x",
		"/proj/" + ignore.FileName: "a.js\n",
		"/conf/lint.ignore":        "b.js\n",
	} {
		if err := util.WriteFile(mem, p, []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	loc := ignore.NewLocator(mem, ignore.WithOverride("/conf/lint.ignore", "/proj"))
	w := NewWalker(mem, loc, jsOpts("/proj"), nil)
	var got []string
	err := w.Walk(context.Background(), "/proj", func(p string) error {
		got = append(got, p)
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	// the override replaces the local ignore file, so a.js is linted
	if !reflect.DeepEqual(got, []string{"/proj/a.js"}) {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestWalkNamedDirectoryStillFiltersItsFiles(t *testing.T) {
	mem := memfs.New()
	for p, c := range map[string]string{
		"/proj/" + ignore.FileName: "sub/*.js\n",
		"/proj/sub/a.js":           "x",
		"/proj/sub/deep/b.js":      "x",
	} {
		if err := util.WriteFile(mem, p, []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	w := NewWalker(mem, ignore.NewLocator(mem), jsOpts("/proj"), nil)
	var got []string
	err := w.Walk(context.Background(), "/proj/sub", func(p string) error {
		got = append(got, p)
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"/proj/sub/deep/b.js"}) {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestEmitBeforeBarrierClears(t *testing.T) {
	wc := &walkContext{barrier: newBarrier(context.Background()), emit: func(string) error { return nil }}
	if err := wc.emitFile("a.js"); !errors.Is(err, errBarrierPending) {
		t.Fatalf("expected barrier error, got %v", err)
	}
	if err := wc.barrier.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := wc.emitFile("a.js"); err != nil {
		t.Fatalf("emit after barrier failed: %v", err)
	}
}

func TestBarrierWaitsForNestedLoads(t *testing.T) {
	b := newBarrier(context.Background())
	done := make([]bool, 3)
	b.Go(func(ctx context.Context) error {
		for i := range done {
			b.Go(func(ctx context.Context) error {
				done[i] = true
				return nil
			})
		}
		return nil
	})
	if err := b.Wait(); err != nil {
		t.Fatal(err)
	}
	if !b.Cleared() {
		t.Fatalf("barrier should be cleared")
	}
	for i, d := range done {
		if !d {
			t.Fatalf("load %d did not finish before Wait returned", i)
		}
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink on windows may require admin")
	}
	tmp := t.TempDir()
	target := filepath.Join(tmp, "real", "a.js")
	mustWrite(t, target, "x")
	if err := os.MkdirAll(filepath.Join(tmp, "walk"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(tmp, "walk", "a.js")); err != nil {
		t.Fatal(err)
	}
	got, err := walkAll(t, fsutil.NewOS(), jsOpts(tmp), filepath.Join(tmp, "walk"))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("symlinks must not be followed: %v", got)
	}
}

func TestEligible(t *testing.T) {
	w := NewWalker(memfs.New(), nil, Options{Extensions: []string{".js", ".JSX"}}, nil)
	for name, want := range map[string]bool{"a.js": true, "b.jsx": true, "c.JS": true, "d.ts": false, "js": false} {
		if got := w.Eligible(name); got != want {
			t.Fatalf("Eligible(%q) = %v want %v", name, got, want)
		}
	}
}
