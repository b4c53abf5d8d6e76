package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syl-lint/internal/fsutil"
)

// countingFS records how often each path is stat'ed.
type countingFS struct {
	billy.Filesystem
	mu     sync.Mutex
	stats  map[string]int
	denied string
}

func newCountingFS(fs billy.Filesystem) *countingFS {
	return &countingFS{Filesystem: fs, stats: map[string]int{}}
}

func (c *countingFS) Stat(name string) (os.FileInfo, error) {
	c.mu.Lock()
	c.stats[name]++
	c.mu.Unlock()
	if c.denied != "" && strings.HasPrefix(name, c.denied) {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
	}
	return c.Filesystem.Stat(name)
}

func (c *countingFS) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.stats {
		n += v
	}
	return n
}

func writeFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}

func TestFindAllNearestFirst(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "/a/"+FileName, "x\n")
	writeFile(t, mem, "/a/b/c/"+FileName, "y\n")
	require.NoError(t, mem.MkdirAll("/a/b/c/d", 0o755))

	l := NewLocator(mem)
	got, err := l.FindAll("/a/b/c/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b/c/" + FileName, "/a/" + FileName}, got)
}

func TestFindAllIsMemoized(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "/a/"+FileName, "x\n")
	require.NoError(t, mem.MkdirAll("/a/b/c", 0o755))
	fs := newCountingFS(mem)

	l := NewLocator(fs)
	first, err := l.FindAll("/a/b")
	require.NoError(t, err)
	scans := fs.total()
	require.Equal(t, 3, scans, "one probe per directory from /a/b to /")

	second, err := l.FindAll("/a/b")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, scans, fs.total(), "same directory must not be re-scanned")

	_, err = l.FindAll("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, scans+1, fs.total(), "a contained directory only probes itself")
	assert.Equal(t, 1, fs.stats[filepath.Join("/a", FileName)])
}

func TestLocatorsDoNotShareMemo(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/a", 0o755))
	fs := newCountingFS(mem)

	_, err := NewLocator(fs).FindAll("/a")
	require.NoError(t, err)
	before := fs.total()
	_, err = NewLocator(fs).FindAll("/a")
	require.NoError(t, err)
	assert.Equal(t, 2*before, fs.total())
}

func TestFindAllFailsOnUnreadableAncestor(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/locked/inner", 0o755))
	fs := newCountingFS(mem)
	fs.denied = "/locked/" + FileName

	_, err := NewLocator(fs).FindAll("/locked/inner")
	require.Error(t, err)
	var fe *fsutil.FilesystemError
	require.True(t, errors.As(err, &fe))
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestOverrideReplacesLookup(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "/a/"+FileName, "x\n")
	writeFile(t, mem, "/etc/custom-ignore", "*.gen.js\n")
	fs := newCountingFS(mem)

	l := NewLocator(fs, WithOverride("/etc/custom-ignore", "/a"))
	got, err := l.FindAll("/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/custom-ignore"}, got)
	local, err := l.Local("/a")
	require.NoError(t, err)
	assert.Empty(t, local)
	assert.Zero(t, fs.total())

	s, err := l.Load("/etc/custom-ignore")
	require.NoError(t, err)
	assert.Equal(t, "/a", s.Dir)
	require.Len(t, s.Patterns, 1)
}

func TestLoadCachesSources(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "/a/"+FileName, "b.js\n# c\n")
	l := NewLocator(mem, WithFileName(FileName))

	s1, err := l.Load("/a/" + FileName)
	require.NoError(t, err)
	s2, err := l.Load("/a/" + FileName)
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.True(t, s1.Match("/a/b.js", false))

	_, err = l.Load("/missing/" + FileName)
	assert.Error(t, err)
}
