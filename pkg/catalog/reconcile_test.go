// pkg/catalog/reconcile_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (in-memory manifests)
// PURPOSE: Test catalog reconciliation: rewrites, idempotence, partition of
// used and unused entries

package catalog_test

import (
	"testing"

	"github.com/arthur-debert/pcc/pkg/catalog"
	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/arthur-debert/pcc/pkg/manifest"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(t *testing.T, rel, content string) *types.ManifestEntry {
	t.Helper()
	doc, err := manifest.Parse("/repo/"+rel, []byte(content))
	require.NoError(t, err)
	return &types.ManifestEntry{
		Path:    "/repo/" + rel,
		RelPath: rel,
		Name:    manifest.ConsumerName(doc.Name(), rel),
		Raw:     []byte(content),
		Blocks:  doc.Blocks(),
	}
}

func devCatalog() *types.CatalogDefinition {
	return &types.CatalogDefinition{
		Name:         "dev",
		Dependencies: map[string]string{"bumpp": "^10.3.2", "eslint": "^9.39.2"},
	}
}

func TestReconcile_AlreadyReferencingCatalog(t *testing.T) {
	content := `{
  "devDependencies": {
    "bumpp": "catalog:",
    "eslint": "catalog:"
  }
}
`
	m := entry(t, "package.json", content)

	result, err := catalog.Reconcile([]*types.ManifestEntry{m}, devCatalog())
	require.NoError(t, err)

	require.Len(t, result.Used, 1)
	assert.False(t, result.Used[0].IsUpdate)
	assert.Equal(t, content, string(result.Used[0].Content))
	assert.Len(t, result.Used[0].Hits, 2)
	assert.Equal(t, map[string]bool{"bumpp": true, "eslint": true}, result.UsedNames())
	assert.Empty(t, result.Unused)
	assert.Empty(t, result.Updated())
}

func TestReconcile_RewritesAndReportsUnused(t *testing.T) {
	m := entry(t, "package.json", `{
  "devDependencies": {
    "bumpp": "^10.0.0"
  }
}
`)

	result, err := catalog.Reconcile([]*types.ManifestEntry{m}, devCatalog())
	require.NoError(t, err)

	require.Len(t, result.Used, 1)
	res := result.Used[0]
	assert.True(t, res.IsUpdate)
	assert.Equal(t, `{
  "devDependencies": {
    "bumpp": "catalog:dev"
  }
}
`, string(res.Content))
	assert.Equal(t, []types.Hit{{
		Dependency: "bumpp",
		Kind:       types.KindDevDependencies,
		From:       "^10.0.0",
		Version:    "catalog:dev",
	}}, res.Hits)

	assert.Equal(t, []types.Hit{{Dependency: "eslint", Version: "catalog:dev"}}, result.Unused)
}

func TestReconcile_CategoryGroupedCatalog(t *testing.T) {
	def := &types.CatalogDefinition{
		Name:         "build, lint",
		Dependencies: map[string]string{"bumpp": "^10.3.2", "eslint": "^9.39.2"},
		Categories: []types.Category{
			{Name: "build", Packages: []string{"bumpp"}, Dependencies: map[string]string{"bumpp": "^10.3.2"}},
		},
	}
	m := entry(t, "packages/tool/package.json", `{"name":"tool","devDependencies":{"bumpp":"^10.0.0","eslint":"^9.0.0"}}`)

	result, err := catalog.Reconcile([]*types.ManifestEntry{m}, def)
	require.NoError(t, err)

	res := result.Used[0]
	assert.True(t, res.IsUpdate)
	assert.Equal(t,
		`{"name":"tool","devDependencies":{"bumpp":"catalog:build","eslint":"catalog:build, lint"}}`,
		string(res.Content))
	assert.Empty(t, result.Unused)
}

func TestReconcile_BareReferenceRewrittenWhenCategorized(t *testing.T) {
	def := catalog.BuildDefinition([]types.Category{
		{Name: "lint", Packages: []string{"eslint"}, Dependencies: map[string]string{"eslint": "^9.39.2"}},
	})
	m := entry(t, "package.json", `{"devDependencies":{"eslint":"catalog:"}}`)

	result, err := catalog.Reconcile([]*types.ManifestEntry{m}, def)
	require.NoError(t, err)
	assert.True(t, result.Used[0].IsUpdate)
	assert.Equal(t, `{"devDependencies":{"eslint":"catalog:lint"}}`, string(result.Used[0].Content))
}

func TestReconcile_AllBlockKinds(t *testing.T) {
	def := &types.CatalogDefinition{
		Name: "prod",
		Dependencies: map[string]string{
			"a": "1", "b": "1", "c": "1", "d": "1",
		},
	}
	m := entry(t, "package.json", `{
  "dependencies": {"a": "1"},
  "devDependencies": {"b": "1"},
  "peerDependencies": {"c": "1"},
  "optionalDependencies": {"d": "1"}
}`)

	result, err := catalog.Reconcile([]*types.ManifestEntry{m}, def)
	require.NoError(t, err)

	res := result.Used[0]
	require.Len(t, res.Hits, 4)
	kinds := []types.DependencyKind{}
	for _, h := range res.Hits {
		kinds = append(kinds, h.Kind)
	}
	assert.Equal(t, types.DependencyKinds, kinds)
	assert.Equal(t, `{
  "dependencies": {"a": "catalog:prod"},
  "devDependencies": {"b": "catalog:prod"},
  "peerDependencies": {"c": "catalog:prod"},
  "optionalDependencies": {"d": "catalog:prod"}
}`, string(res.Content))
}

func TestReconcile_UntouchedManifestsPassThrough(t *testing.T) {
	untouched := "{\n\t\"name\": \"other\",\n\t\"dependencies\": {\"react\": \"^18\"}\n}"
	manifests := []*types.ManifestEntry{
		entry(t, "a/package.json", untouched),
		entry(t, "b/package.json", `{"dependencies":{"eslint":"^9"}}`),
	}

	result, err := catalog.Reconcile(manifests, devCatalog())
	require.NoError(t, err)

	require.Len(t, result.Used, 2)
	assert.False(t, result.Used[0].IsUpdate)
	assert.Empty(t, result.Used[0].Hits)
	assert.Equal(t, untouched, string(result.Used[0].Content))
	assert.True(t, result.Used[1].IsUpdate)
	require.Len(t, result.Updated(), 1)
	assert.Equal(t, "b/package.json", result.Updated()[0].RelPath)
}

func TestReconcile_FixedPoint(t *testing.T) {
	def := &types.CatalogDefinition{
		Name:         "build, frontend",
		Dependencies: map[string]string{"vite": "^5", "vue": "^3", "pinia": "^2", "unused-lib": "^1"},
		Categories: []types.Category{
			{Name: "build", Dependencies: map[string]string{"vite": "^5"}},
			{Name: "frontend", Dependencies: map[string]string{"vue": "^3", "pinia": "^2"}},
		},
	}
	manifests := []*types.ManifestEntry{
		entry(t, "package.json", `{"devDependencies":{"vite":"^5.0.0"}}`),
		entry(t, "apps/web/package.json", `{"name":"web","dependencies":{"vue":"catalog:","pinia":"catalog:frontend"},"devDependencies":{"vite":"catalog:"}}`),
	}

	first, err := catalog.Reconcile(manifests, def)
	require.NoError(t, err)
	require.Len(t, first.Updated(), 2)

	// feed the rewritten content back in
	second := make([]*types.ManifestEntry, 0, len(first.Used))
	for _, res := range first.Used {
		second = append(second, entry(t, res.RelPath, string(res.Content)))
	}

	again, err := catalog.Reconcile(second, def)
	require.NoError(t, err)
	assert.Empty(t, again.Updated())
	for i, res := range again.Used {
		assert.Equal(t, first.Used[i].Content, res.Content)
		assert.Equal(t, len(first.Used[i].Hits), len(res.Hits))
	}
	assert.Equal(t, first.Unused, again.Unused)
}

func TestReconcile_PartitionProperty(t *testing.T) {
	def := &types.CatalogDefinition{
		Name: "misc",
		Dependencies: map[string]string{
			"@types/node": "^20", "zod": "^3", "react": "^18", "lodash": "^4", "@vue/test-utils": "^2",
		},
	}
	manifests := []*types.ManifestEntry{
		entry(t, "package.json", `{"dependencies":{"zod":"^3","left-pad":"^1"}}`),
		entry(t, "x/package.json", `{"devDependencies":{"@types/node":"catalog:misc","zod":"^3"}}`),
	}

	result, err := catalog.Reconcile(manifests, def)
	require.NoError(t, err)

	used := result.UsedNames()
	all := map[string]bool{}
	for _, h := range result.Unused {
		assert.False(t, used[h.Dependency], "%s both used and unused", h.Dependency)
		all[h.Dependency] = true
	}
	for name := range used {
		all[name] = true
	}
	assert.Len(t, all, len(def.Dependencies))
	for name := range def.Dependencies {
		assert.True(t, all[name], name)
	}

	// unused entries come out in package order
	names := []string{}
	for _, h := range result.Unused {
		names = append(names, h.Dependency)
	}
	assert.Equal(t, []string{"@vue/test-utils", "lodash", "react"}, names)
}

func TestReconcile_Idempotence(t *testing.T) {
	def := catalog.BuildDefinition([]types.Category{
		{Name: "test", Packages: []string{"vitest"}, Dependencies: map[string]string{"vitest": "^1"}},
		{Name: "lint", Packages: []string{"eslint"}, Dependencies: map[string]string{"eslint": "^9"}},
	})

	tests := []struct {
		name    string
		content string
	}{
		{"exact references", `{"devDependencies":{"vitest":"catalog:test","eslint":"catalog:lint"}}`},
		{"unrelated deps only", `{"dependencies":{"react":"^18"}}`},
		{"no blocks", `{"name":"empty"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := catalog.Reconcile([]*types.ManifestEntry{entry(t, "package.json", tt.content)}, def)
			require.NoError(t, err)
			assert.False(t, result.Used[0].IsUpdate)
			assert.Equal(t, tt.content, string(result.Used[0].Content))
		})
	}
}

func TestReconcile_InvalidDefinition(t *testing.T) {
	_, err := catalog.Reconcile(nil, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	def := &types.CatalogDefinition{
		Name:         "x",
		Dependencies: map[string]string{},
		Categories:   []types.Category{{Name: "x", Dependencies: map[string]string{"ghost": "1"}}},
	}
	_, err = catalog.Reconcile(nil, def)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTarget(t *testing.T) {
	def := catalog.BuildDefinition([]types.Category{
		{Name: "build", Dependencies: map[string]string{"vite": "^5"}},
	})
	assert.Equal(t, "catalog:build", catalog.Target(def, "vite"))
	assert.Equal(t, "catalog:build", catalog.Target(def, "not-categorized"))
}
