// pkg/scanner/scanner_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test manifest discovery globs and the usage index

package scanner_test

import (
	"testing"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/scanner"
	"github.com/arthur-debert/pcc/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	defaultPatterns = []string{"package.json", "*/**/package.json"}
	defaultIgnore   = []string{"**/node_modules/**"}
)

func TestDiscover(t *testing.T) {
	fs := testutil.NewTestFS()
	ws := testutil.NewWorkspace(t, fs, "/repo").
		WithFile("package.json", "{}").
		WithFile("packages/ui/package.json", "{}").
		WithFile("packages/ui/node_modules/vue/package.json", "{}").
		WithFile("node_modules/lodash/package.json", "{}").
		WithFile("apps/web/package.json", "{}").
		WithFile("apps/web/tsconfig.json", "{}")

	found, err := scanner.Discover(fs, ws.Root(), defaultPatterns, defaultIgnore)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"apps/web/package.json",
		"package.json",
		"packages/ui/package.json",
	}, found)
}

func TestDiscover_CustomPatterns(t *testing.T) {
	fs := testutil.NewTestFS()
	ws := testutil.NewWorkspace(t, fs, "/repo").
		WithFile("package.json", "{}").
		WithFile("apps/web/package.json", "{}").
		WithFile("packages/legacy/package.json", "{}").
		WithFile("packages/ui/package.json", "{}")

	found, err := scanner.Discover(fs, ws.Root(),
		[]string{"packages/*/package.json"},
		[]string{"packages/legacy/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/ui/package.json"}, found)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	fs := testutil.NewTestFS()
	_, err := scanner.Discover(fs, "/repo", []string{"[oops"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestScan_UsageIndex(t *testing.T) {
	fs := testutil.NewTestFS()
	ws := testutil.NewWorkspace(t, fs, "/repo").
		WithPackage(".", testutil.Package{
			DevDependencies: map[string]string{"vitest": "^1.0.0", "typescript": "^5.4.0"},
		}).
		WithPackage("packages/ui", testutil.Package{
			Name:             "@acme/ui",
			Dependencies:     map[string]string{"vue": "^3.4.0"},
			PeerDependencies: map[string]string{"vue": "^3.0.0"},
		}).
		WithPackage("apps/web", testutil.Package{
			Name:                 "web",
			Dependencies:         map[string]string{"vue": "^3.4.0"},
			OptionalDependencies: map[string]string{"fsevents": "^2.3.0"},
		}).
		WithPackage("tools/gen", testutil.Package{
			DevDependencies: map[string]string{"typescript": "^5.4.0"},
		}).
		WithPackage("apps/web/node_modules/vue", testutil.Package{Name: "vue"})

	result, err := scanner.Scan(fs, ws.Root(), defaultPatterns, defaultIgnore)
	require.NoError(t, err)

	require.Len(t, result.Manifests, 4)
	// discovery order is sorted by path
	assert.Equal(t, "apps/web/package.json", result.Manifests[0].RelPath)

	assert.Equal(t, []string{"web", "@acme/ui"}, result.Usage.Consumers("vue"))
	assert.Equal(t, []string{"root", "tools/gen"}, result.Usage.Consumers("typescript"))
	assert.Equal(t, []string{"web"}, result.Usage.Consumers("fsevents"))
	assert.Equal(t, []string{"root"}, result.Usage.Consumers("vitest"))
	assert.Nil(t, result.Usage.Consumers("react"))
}

func TestScan_ParseFailureAbortsScan(t *testing.T) {
	fs := testutil.NewTestFS()
	ws := testutil.NewWorkspace(t, fs, "/repo").
		WithFile("package.json", `{"dependencies": {"vue": "^3"}}`).
		WithFile("packages/broken/package.json", `{"dependencies": [}`)

	result, err := scanner.Scan(fs, ws.Root(), defaultPatterns, defaultIgnore)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Equal(t, ws.Path("packages/broken/package.json"), errors.Detail(err, "path"))
}
