package sitemap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScanDirectory(t *testing.T) {
	docs := writeDocs(t, map[string]string{
		"video-calling/overview.md":            "---\ntitle: 'Overview'\n---\nbody\n",
		"video-calling/guide_android.md":       "---\ntitle: 'Guide'\n---\nbody\n",
		"video-calling/secret.md":              "---\ntitle: 'Secret'\nsitemap_exclude: true\n---\nbody\n",
		"video-calling/wip.md":                 "---\ntitle: 'WIP'\ndraft: true\n---\nbody\n",
		"video-calling/draft/old.md":           "body\n",
		"video-calling/notes.txt":              "not markdown\n",
		"video-calling/api-reference/flags.md": "---\ntitle: 'Flags'\n---\nbody\n",
	})

	g := NewGenerator("https://docs-md.example.io/")
	require.NoError(t, g.ScanDirectory(context.Background(), docs))

	assert.Equal(t, 3, g.Len())

	byLoc := map[string]Entry{}
	for _, e := range g.entries {
		byLoc[e.Loc] = e
	}

	overview, ok := byLoc["https://docs-md.example.io/en/video-calling/overview.md"]
	require.True(t, ok)
	assert.InDelta(t, 0.9, overview.Priority, 1e-9)
	assert.Equal(t, "monthly", overview.ChangeFreq)

	guide, ok := byLoc["https://docs-md.example.io/en/video-calling/guide_android.md"]
	require.True(t, ok)
	assert.InDelta(t, 0.8, guide.Priority, 1e-9)

	flags, ok := byLoc["https://docs-md.example.io/en/video-calling/api-reference/flags.md"]
	require.True(t, ok)
	assert.Equal(t, "weekly", flags.ChangeFreq)
}

func TestFrontMatterOverrides(t *testing.T) {
	docs := writeDocs(t, map[string]string{
		"video-calling/pinned.md": `---
title: 'Pinned'
sitemap_priority: 1.0
sitemap_changefreq: daily
exported_on: '2026-08-01T12:00:00Z'
---
body
`,
	})

	g := NewGenerator("https://docs-md.example.io")
	require.NoError(t, g.ScanDirectory(context.Background(), docs))

	require.Equal(t, 1, g.Len())
	entry := g.entries[0]
	assert.InDelta(t, 1.0, entry.Priority, 1e-9)
	assert.Equal(t, "daily", entry.ChangeFreq)
	assert.Equal(t, "2026-08-01", entry.LastMod)
}

func TestWriteXMLSortsEntries(t *testing.T) {
	docs := writeDocs(t, map[string]string{
		"b/page.md": "---\ntitle: 'B'\n---\nbody\n",
		"a/page.md": "---\ntitle: 'A'\n---\nbody\n",
	})

	g := NewGenerator("https://docs-md.example.io")
	require.NoError(t, g.ScanDirectory(context.Background(), docs))

	out := filepath.Join(t.TempDir(), "sitemap.xml")
	require.NoError(t, g.WriteXML(out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Less(t,
		strings.Index(content, "/en/a/page.md"),
		strings.Index(content, "/en/b/page.md"),
	)
}
