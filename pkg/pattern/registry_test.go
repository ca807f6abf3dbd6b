package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistrySeedsDefaultCatalog(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, 12, r.Catalog().Len())
}

func TestLoadFileOverridesBaseConfidence(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "tune.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`entries:
  - id: P2
    name: named-article
    kind: External
    priority: 24
    base_confidence: 0.99
    regex: '(?P<name>[^\s　、。，（）()第]{1,20}?法)第(?P<art>[〇一二三四五六七八九十百千]+)条'
`), 0o644))

	r, err := NewRegistry()
	require.NoError(t, err)
	require.NoError(t, r.LoadFile(overlay))

	entry, ok := r.Catalog().Get(P2NamedArticle)
	require.True(t, ok)
	assert.Equal(t, 0.99, entry.BaseConfidence)
}

func TestLoadDirectoryAppliesOverlaysInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`entries:
  - id: P10
    name: structural
    kind: Structural
    priority: 30
    base_confidence: 0.70
    regex: '第(?P<num>[〇一二三四五六七八九十百千]+)(?P<unit>章|編|節|款)'
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(`entries:
  - id: P10
    name: structural
    kind: Structural
    priority: 30
    base_confidence: 0.75
    regex: '第(?P<num>[〇一二三四五六七八九十百千]+)(?P<unit>章|編|節|款)'
`), 0o644))

	r, err := NewRegistryWithOverrideDir(dir)
	require.NoError(t, err)

	entry, ok := r.Catalog().Get(P10Structural)
	require.True(t, ok)
	assert.Equal(t, 0.75, entry.BaseConfidence) // b.yaml sorts after a.yaml
}

func TestReloadDropsStaleOverlays(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "tune.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`entries:
  - id: P10
    name: structural
    kind: Structural
    priority: 30
    base_confidence: 0.70
    regex: '第(?P<num>[〇一二三四五六七八九十百千]+)(?P<unit>章|編|節|款)'
`), 0o644))

	r, err := NewRegistryWithOverrideDir(dir)
	require.NoError(t, err)
	entry, _ := r.Catalog().Get(P10Structural)
	assert.Equal(t, 0.70, entry.BaseConfidence)

	require.NoError(t, os.Remove(overlay))
	require.NoError(t, r.Reload())

	entry, _ = r.Catalog().Get(P10Structural)
	assert.Equal(t, 0.80, entry.BaseConfidence) // back to the built-in default
}
