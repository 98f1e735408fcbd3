package mdindex

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readMapping(t *testing.T, outputDir string) map[string]Record {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(outputDir, "file_mapping.json"))
	require.NoError(t, err)
	var mapping map[string]Record
	require.NoError(t, json.Unmarshal(raw, &mapping))
	return mapping
}

func TestIndexerAssignsSequentialIDs(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()

	writeDoc(t, root, "video-calling/overview.md", "---\ntitle: Product overview\n---\n\nBody.\n")
	writeDoc(t, root, "video-calling/guides/setup.md", "# Quickstart\n\nSteps.\n")
	writeDoc(t, root, "voice-calling/notes.txt", "ignored\n")

	count, err := NewIndexer(root, out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	mapping := readMapping(t, out)
	require.Len(t, mapping, 2)

	byOriginal := map[string]Record{}
	ids := map[string]string{}
	for id, record := range mapping {
		byOriginal[record.OriginalPath] = record
		ids[record.OriginalPath] = id
	}

	overview := byOriginal["video-calling/overview.md"]
	assert.Equal(t, "Product overview", overview.Title)
	assert.Equal(t, "video-calling/"+ids["video-calling/overview.md"]+".md", overview.IndexedPath)

	setup := byOriginal["video-calling/guides/setup.md"]
	assert.Equal(t, "Quickstart", setup.Title)

	for _, record := range mapping {
		_, err := os.Stat(filepath.Join(out, record.IndexedPath))
		assert.NoError(t, err, "indexed copy for %s", record.OriginalPath)
	}
}

func TestIndexerKeepsExistingIDs(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()

	writeDoc(t, root, "a.md", "# First\n")
	_, err := NewIndexer(root, out).Run(context.Background())
	require.NoError(t, err)

	first := readMapping(t, out)
	require.Len(t, first, 1)
	var firstID string
	for id := range first {
		firstID = id
	}

	writeDoc(t, root, "b.md", "# Second\n")
	count, err := NewIndexer(root, out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	second := readMapping(t, out)
	require.Len(t, second, 2)
	assert.Equal(t, "a.md", second[firstID].OriginalPath)
}

func TestDocumentTitleFallsBackToHeading(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"front matter wins", "---\ntitle: From meta\n---\n\n# From heading\n", "From meta", false},
		{"first h1", "Intro paragraph.\n\n# Setup guide\n\n## Not this\n", "Setup guide", false},
		{"no title anywhere", "Just a paragraph.\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(root, "doc.md")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			title, err := DocumentTitle(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, title)
		})
	}
}
