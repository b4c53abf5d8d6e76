// Package fsutil adapts go-billy filesystems for the linter. Every path handed
// to these helpers is absolute.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// rootOS resolves absolute paths against the real root.
type rootOS struct {
	osfs.ChrootOS
}

//nolint:ireturn // signature dictated by billy.Chroot.
func (r *rootOS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

func (r *rootOS) Root() string {
	return string(filepath.Separator)
}

//nolint:ireturn // callers only need billy.Filesystem.
func NewOS() billy.Filesystem {
	return &rootOS{}
}

type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) && filepath.Clean(pe.Path) == filepath.Clean(path) {
		err = pe.Err
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}

func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// Probe reports whether a regular file exists at path. A missing file is not
// an error; anything else is.
func Probe(fsys billy.Filesystem, path string) (bool, error) {
	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case IsNotExist(err):
		return false, nil
	default:
		return false, wrap("stat", path, err)
	}
}

func Stat(fsys billy.Filesystem, path string) (os.FileInfo, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, wrap("stat", path, err)
	}
	return info, nil
}

func ReadDir(fsys billy.Filesystem, dir string) ([]os.FileInfo, error) {
	list, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, wrap("readdir", dir, err)
	}
	return list, nil
}

func ReadFile(fsys billy.Filesystem, path string) ([]byte, error) {
	b, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, wrap("read", path, err)
	}
	return b, nil
}

func Abs(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if cwd == "" {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return filepath.Join(cwd, path)
}
