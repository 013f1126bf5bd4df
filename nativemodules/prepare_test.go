package nativemodules_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/fullstack-bundler/internal/bundletest"
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/nativemodules"
)

type fakeInstaller struct {
	calls []string
}

func (f *fakeInstaller) Install(targetDir string, deps []model.CVOptions) error {
	f.calls = append(f.calls, targetDir)
	return nil
}

func TestPrepareInstallsDeclaredNativeModules(t *testing.T) {
	fs := afero.NewMemMapFs()
	installer := &fakeInstaller{}

	pkg := bundletest.New("pkg:widgets", "widgets")
	pkg.NativeDeps = []model.CVOptions{{Name: "libfoo"}}
	pkg.InstallFn = installer

	bundle := model.NewBundle("/app", "/release/release.yaml", "1.0.0")
	bundle.GetOrCreatePBR(pkg, model.RoleUse)

	require.NoError(t, nativemodules.Prepare(fs, bundle, "/scratch"))

	assert.Len(t, installer.calls, 1)
	assert.Equal(t, []string{"app/packages/widgets/node_modules"}, keys(bundle.NodeModulesDirs))
}

func TestPrepareSkipsPackagesWithoutNativeDeps(t *testing.T) {
	fs := afero.NewMemMapFs()
	pkg := bundletest.New("pkg:plain", "plain")

	bundle := model.NewBundle("/app", "/release/release.yaml", "1.0.0")
	bundle.GetOrCreatePBR(pkg, model.RoleUse)

	require.NoError(t, nativemodules.Prepare(fs, bundle, "/scratch"))
	assert.Empty(t, bundle.NodeModulesDirs)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
