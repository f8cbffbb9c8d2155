// Package osutil provides the filesystem primitives used to stage files
// across the chroot boundary.
package osutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

const logPrefix = "osutil:copy"

// ErrSameFile is returned when the source and destination of a copy are the
// same file or directory.
var ErrSameFile = errors.New("source and destination are the same file")

// CopyFile copies the file src to dst, preserving its permission bits. dst is
// created or truncated. A symlinked src is copied by content.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := checkSameFile(info, dst); err != nil {
		return err
	}
	return cp.Copy(src, dst, cp.Options{
		OnSymlink: func(string) cp.SymlinkAction { return cp.Deep },
	})
}

// CopyDirContents recursively copies the contents of src into dst. dst is
// created if missing and merged into if not; src itself is not nested under
// dst. Symlinks are recreated, not followed. When dst lies inside src it is
// left out of the copy.
func CopyDirContents(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "copydir", Path: src, Err: fmt.Errorf("not a directory")}
	}
	if err := checkSameFile(info, dst); err != nil {
		return err
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(absDst, 0o755); err != nil {
		return err
	}

	slog.Debug(fmt.Sprintf("%s - copying contents of %s to %s", logPrefix, absSrc, absDst))

	return cp.Copy(absSrc, absDst, cp.Options{
		OnSymlink: func(string) cp.SymlinkAction { return cp.Shallow },
		Skip: func(_ os.FileInfo, path, _ string) (bool, error) {
			if filepath.Clean(path) == absDst {
				slog.Debug(fmt.Sprintf("%s - skipping destination %s inside source", logPrefix, path))
				return true, nil
			}
			return false, nil
		},
	})
}

// checkSameFile fails when dst already exists and is the same file as src.
func checkSameFile(src os.FileInfo, dst string) error {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return nil
	}
	if os.SameFile(src, dstInfo) {
		return &fs.PathError{Op: "copy", Path: dst, Err: ErrSameFile}
	}
	return nil
}
