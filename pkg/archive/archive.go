// Package archive packages and clears the badge output directory.
//
// [Zip] produces byte-identical archives for identical directory contents:
// entries are written in lexical path order with forward-slash names and a
// fixed modification time, so a download can be compared or cached by hash.
package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// epoch is the modification time stamped on every entry.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Zip writes every regular file under dir to w as a zip archive. Entry names
// are relative to dir. Paths in skip (absolute or relative to the working
// directory) are left out, which lets callers write the archive into dir.
func Zip(dir string, w io.Writer, skip ...string) error {
	files, err := list(dir, skip)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, rel := range files {
		if err := add(zw, dir, rel); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "finish archive")
	}
	return nil
}

// ZipFile writes the archive of dir to dst, creating parent directories.
// dst itself is excluded when it lives under dir.
func ZipFile(dir, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create directory for %s", dst)
	}
	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create %s", dst)
	}
	if err := Zip(dir, f, dst); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "close %s", dst)
	}
	return nil
}

func list(dir string, skip []string) ([]string, error) {
	excluded := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			excluded[abs] = true
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && excluded[abs] {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func add(zw *zip.Writer, dir, rel string) error {
	src, err := os.Open(filepath.Join(dir, rel))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "open %s", rel)
	}
	defer src.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.ToSlash(rel),
		Method:   zip.Deflate,
		Modified: epoch,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "add %s", rel)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "copy %s", rel)
	}
	return nil
}

// Clean removes dir and everything in it, then recreates it empty. dir must
// pass [errors.ValidateDir], which rejects the filesystem root and ".".
func Clean(dir string) error {
	if err := errors.ValidateDir(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInfrastructure, err, "clear %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInfrastructure, err, "create %s", dir)
	}
	return nil
}
