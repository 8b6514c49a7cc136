package retriever

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/intentmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMarkdown(t *testing.T) {
	text := "# Manual\n- Vacaciones: 15 dias.\n- \n- Onboarding: dos semanas.\n"
	docs := SplitMarkdown(text, "manual.md")

	require.Len(t, docs, 3)
	assert.Equal(t, core.Document{Content: "# Manual", Source: "manual.md", ChunkID: 1}, docs[0])
	assert.Equal(t, "Vacaciones: 15 dias.", docs[1].Content)
	assert.Equal(t, 2, docs[1].ChunkID)
	assert.Equal(t, "Onboarding: dos semanas.", docs[2].Content)
	assert.Equal(t, 3, docs[2].ChunkID)

	assert.Empty(t, SplitMarkdown("   ", "x.md"))
}

func TestLoadMarkdown(t *testing.T) {
	dir := t.TempDir()
	hr := filepath.Join(dir, "manual_rrhh.md")
	require.NoError(t, os.WriteFile(hr, []byte("- uno\n- dos"), 0o600))

	docs, err := LoadMarkdown(hr, filepath.Join(dir, "missing.md"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "manual_rrhh.md", docs[0].Source)
	assert.Equal(t, "- uno", docs[0].Content)
	assert.Equal(t, "dos", docs[1].Content)
}

func TestLoadMarkdown_DirectoryIsError(t *testing.T) {
	_, err := LoadMarkdown(t.TempDir())
	assert.Error(t, err)
}
