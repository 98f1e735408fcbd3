package htmlconv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

const samplePage = `<!DOCTYPE html>
<html>
<head><title>IAgoraRTCClient | AgoraWebSDK</title></head>
<body>
<header class="tsd-page-toolbar">navigation chrome</header>
<div class="container">
  <div class="row">
    <div class="col-9 col-content">
      <h1>Interface IAgoraRTCClient</h1>
      <section class="tsd-panel tsd-comment">
        <div class="lead">Provides the core functions of the SDK.</div>
      </section>
      <p>See <a href="iagorartc.html">IAgoraRTC</a> and
         <a href="ilocaltrack.html#close">close</a> for details.
         External <a href="https://agora.io/docs">docs</a> stay as they are.</p>
    </div>
    <div class="col-3 tsd-navigation">sidebar junk</div>
  </div>
</div>
</body>
</html>`

func writePage(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertAllProducesMarkdownTree(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writePage(t, in, "interfaces/iagorartcclient.html", samplePage)
	writePage(t, in, "globals.html", samplePage)

	c := NewConverter(in, out)
	converted, failed, err := c.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, converted)
	assert.Equal(t, 0, failed)

	raw, err := os.ReadFile(filepath.Join(out, "interfaces", "iagorartcclient.md"))
	require.NoError(t, err)
	got := string(raw)

	assert.True(t, strings.HasPrefix(got, "---\ntitle: Interface IAgoraRTCClient\n"), "front matter:\n%s", got)
	assert.Contains(t, got, "description: Provides the core functions of the SDK.")
	assert.Contains(t, got, "(iagorartc.md)")
	assert.Contains(t, got, "(ilocaltrack.md#close)")
	assert.Contains(t, got, "https://agora.io/docs")
	assert.NotContains(t, got, ".html)")
	assert.NotContains(t, got, "sidebar junk")
	assert.NotContains(t, got, "\n\n\n")
}

func TestConvertAllCountsFailures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writePage(t, in, "ok.html", samplePage)
	writePage(t, in, "empty.html", "<html><body><p>no content div</p></body></html>")

	converted, failed, err := NewConverter(in, out).ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, converted)
	assert.Equal(t, 1, failed)

	_, err = os.Stat(filepath.Join(out, "empty.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteIndexGroupsByDirectory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writePage(t, in, "interfaces/iagorartcclient.html", samplePage)
	writePage(t, in, "globals.html", samplePage)

	c := NewConverter(in, out)
	_, _, err := c.ConvertAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.WriteIndex("Web SDK API Reference"))

	raw, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	got := string(raw)

	assert.True(t, strings.HasPrefix(got, "# Web SDK API Reference\n"))
	assert.Contains(t, got, "## interfaces")
	assert.Contains(t, got, "](interfaces/iagorartcclient.md)")
	assert.Contains(t, got, "](globals.md)")
}

func TestRewriteDocLinksKeepsSpecialHrefs(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative html", "iagorartc.html", "iagorartc.md"},
		{"fragment preserved", "itrack.html#play", "itrack.md#play"},
		{"external", "https://example.com/a.html", "https://example.com/a.html"},
		{"pure fragment", "#events", "#events"},
		{"rooted", "/docs/a.html", "/docs/a.html"},
		{"non html", "schema.json", "schema.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseFragment(t, `<a href="`+tt.href+`">x</a>`)
			rewriteDocLinks(doc)
			link := findNode(doc, "a", nil)
			require.NotNil(t, link)
			for _, attr := range link.Attr {
				if attr.Key == "href" {
					assert.Equal(t, tt.want, attr.Val)
				}
			}
		})
	}
}

func TestCleanMarkdownStripsNavigation(t *testing.T) {
	in := "# Title\n\n\n\nBody  with   runs.\n##   \nGlobals / IAgoraRTC\nKept line.\n"
	got := cleanMarkdown(in)

	assert.NotContains(t, got, "\n\n\n")
	assert.NotContains(t, got, "Globals")
	assert.NotContains(t, got, "##   ")
	assert.Contains(t, got, "Body with runs.")
	assert.Contains(t, got, "Kept line.")
}
