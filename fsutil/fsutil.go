// Package fsutil provides the bundler's filesystem primitives: recursive
// copy with ignore-pattern filtering, recursive remove, and mkdir-p. Every
// pipeline stage that touches disk (the Source Compiler, the package
// loader, and the Writer) takes an afero.Fs so the whole pipeline can run
// against an in-memory filesystem in tests.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/SUSE/fullstack-bundler/util"
	"github.com/spf13/afero"
	shutil "github.com/termie/go-shutil"
)

// MkdirP creates path and any missing parents.
func MkdirP(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, 0755)
}

// RemoveTree recursively removes path, tolerating its absence.
func RemoveTree(fs afero.Fs, path string) error {
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return fs.RemoveAll(path)
}

// CopyTree recursively copies src to dst, skipping any entry whose
// basename matches ignore. When fs is backed by the real OS filesystem the
// copy is delegated to github.com/termie/go-shutil for an efficient native
// copy; otherwise (e.g. an in-memory afero.Fs in tests) a manual walk
// performs the copy so the same code path is exercised without touching
// disk.
func CopyTree(fs afero.Fs, src, dst string, ignore util.IgnoreList) error {
	if osFS, ok := realOSFs(fs); ok {
		return copyTreeOS(osFS, src, dst, ignore)
	}
	return copyTreeAfero(fs, src, dst, ignore)
}

func realOSFs(fs afero.Fs) (*afero.OsFs, bool) {
	osFS, ok := fs.(*afero.OsFs)
	return osFS, ok
}

func copyTreeOS(_ *afero.OsFs, src, dst string, ignore util.IgnoreList) error {
	return shutil.CopyTree(src, dst, &shutil.CopyTreeOptions{
		Symlinks:               true,
		Ignore:                 shutilIgnore(ignore),
		CopyFunction:           shutil.Copy,
		IgnoreDanglingSymlinks: false,
	})
}

// shutilIgnore adapts an util.IgnoreList to go-shutil's ignore-callback
// signature.
func shutilIgnore(ignore util.IgnoreList) func(string, []os.FileInfo) []string {
	return func(_ string, entries []os.FileInfo) []string {
		var skip []string
		for _, entry := range entries {
			if ignore.Matches(entry.Name()) {
				skip = append(skip, entry.Name())
			}
		}
		return skip
	}
}

// Symlink creates newname as a symbolic link to oldname when fs is backed
// by the real OS filesystem. Against an in-memory afero.Fs (tests, or any
// backend without symlink support) it falls back to a recursive copy, since
// a symlink has no meaning there.
func Symlink(fs afero.Fs, oldname, newname string) error {
	if _, ok := realOSFs(fs); ok {
		return os.Symlink(oldname, newname)
	}
	info, err := fs.Stat(oldname)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyTreeAfero(fs, oldname, newname, nil)
	}
	data, err := afero.ReadFile(fs, oldname)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, newname, data, info.Mode())
}

func copyTreeAfero(fs afero.Fs, src, dst string, ignore util.IgnoreList) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ignore.Matches(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fs.MkdirAll(target, info.Mode())
		}

		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return afero.WriteFile(fs, target, data, info.Mode())
	})
}
