package loader

import (
	"path/filepath"

	"code.cloudfoundry.org/archiver/extractor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/util"
	"github.com/SUSE/fullstack-bundler/validation"
)

// Warehouse fetches a pinned package archive, keyed by name and release
// manifest. The default implementation reads from local disk; the
// interface is the pluggable seam spec.md §6 calls out for "a release
// warehouse" without mandating a specific backend.
type Warehouse interface {
	// Fetch returns the local filesystem path to name's archive for the
	// given release manifest.
	Fetch(name, releaseManifest string) (archivePath string, err error)
}

// LocalWarehouse resolves archives from a flat directory of
// "<name>.tar.gz" files — the trivial Warehouse a single-machine bundler
// run needs, with remote backends pluggable behind the same interface.
type LocalWarehouse struct {
	Dir string
}

// Fetch implements Warehouse.
func (w LocalWarehouse) Fetch(name, _ string) (string, error) {
	return filepath.Join(w.Dir, name+".tar.gz"), nil
}

// WarehouseLoader resolves packages by fetching and extracting a pinned
// archive per name, then reading the extracted descriptor exactly like
// DiskLoader.
type WarehouseLoader struct {
	FS        afero.Fs
	Warehouse Warehouse
	CacheDir  string
	Logger    *logrus.Logger

	cache map[string]model.Package
}

// NewWarehouseLoader builds a WarehouseLoader extracting fetched archives
// under cacheDir.
func NewWarehouseLoader(fs afero.Fs, warehouse Warehouse, cacheDir string, logger *logrus.Logger) *WarehouseLoader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WarehouseLoader{FS: fs, Warehouse: warehouse, CacheDir: cacheDir, Logger: logger, cache: map[string]model.Package{}}
}

// Get implements model.PackageLoader.
func (l *WarehouseLoader) Get(name, releaseManifest, _ string) (model.Package, error) {
	if pkg, ok := l.cache[name]; ok {
		return pkg, nil
	}

	archivePath, err := l.Warehouse.Fetch(name, releaseManifest)
	if err != nil {
		return nil, validation.ErrorList{validation.ResolutionError(name)}
	}

	targetDir := filepath.Join(l.CacheDir, name)
	if exists, _ := afero.DirExists(l.FS, targetDir); !exists {
		l.Logger.Debugf("extracting package %s from %s to %s", name, archivePath, targetDir)
		if err := extractor.NewTgz().Extract(archivePath, targetDir); err != nil {
			return nil, validation.ErrorList{validation.IOError(archivePath, err)}
		}
	}

	descLoader := NewDiskLoader(l.FS)
	pkg, err := descLoader.load(targetDir, name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = pkg
	return pkg, nil
}

// GetForApp implements model.PackageLoader: the application is never
// fetched from a warehouse (it is the local project under development).
func (l *WarehouseLoader) GetForApp(dir string, ignore util.IgnoreList) (model.Package, error) {
	return NewDiskLoader(l.FS).GetForApp(dir, ignore)
}

// Flush implements model.PackageLoader.
func (l *WarehouseLoader) Flush() {
	l.cache = map[string]model.Package{}
}
