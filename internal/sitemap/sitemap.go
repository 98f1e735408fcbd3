// Package sitemap scans exported Markdown documentation and generates an XML
// sitemap following the sitemap protocol.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/saudsami/AgoraTools/internal/ctxlog"
)

// Entry is a single sitemap URL with its metadata.
type Entry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   float64  `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Entries []Entry  `xml:"url"`
}

// Generator collects entries for one documentation tree.
type Generator struct {
	baseURL string
	entries []Entry
}

// NewGenerator builds a Generator rooted at the published base URL.
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// docMeta is the front-matter surface relevant to sitemap generation.
type docMeta struct {
	Draft             bool    `yaml:"draft"`
	SitemapExclude    bool    `yaml:"sitemap_exclude"`
	SitemapPriority   float64 `yaml:"sitemap_priority"`
	SitemapChangeFreq string  `yaml:"sitemap_changefreq"`
	SitemapLastMod    string  `yaml:"sitemap_lastmod"`
	ExportedOn        string  `yaml:"exported_on"`
}

var (
	platformSuffixRe = regexp.MustCompile(`_(?:android|ios|web|flutter|react-native|unity|windows|macos|electron)\.md$`)
	excludePathRes   = []*regexp.Regexp{
		regexp.MustCompile(`\.draft\.md$`),
		regexp.MustCompile(`\.test\.md$`),
		regexp.MustCompile(`/draft/`),
		regexp.MustCompile(`/temp/`),
		regexp.MustCompile(`/_`),
	}
)

// ScanDirectory walks the exported tree and builds sitemap entries for every
// .md file that is not excluded by path pattern or front matter.
func (g *Generator) ScanDirectory(ctx context.Context, docsDir string) error {
	logger := ctxlog.FromContext(ctx)
	docsDir, err := filepath.Abs(docsDir)
	if err != nil {
		return err
	}

	return filepath.Walk(docsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		meta, metaErr := readDocMeta(path)
		if metaErr != nil {
			logger.Warn("unreadable front matter", "file", rel, "error", metaErr)
		}
		if excluded(rel, meta) {
			logger.Debug("excluded from sitemap", "file", rel)
			return nil
		}

		g.entries = append(g.entries, Entry{
			Loc:        g.baseURL + "/en/" + rel,
			LastMod:    lastModified(path, info, meta),
			ChangeFreq: changeFrequency(rel, meta),
			Priority:   priority(rel, meta),
		})
		return nil
	})
}

// Len returns the number of collected entries.
func (g *Generator) Len() int { return len(g.entries) }

// WriteXML writes the sitemap, entries sorted by URL for reproducibility.
func (g *Generator) WriteXML(outputPath string) error {
	sorted := append([]Entry(nil), g.entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Loc < sorted[j].Loc })

	payload, err := xml.MarshalIndent(urlSet{
		Xmlns:   "http://www.sitemaps.org/schemas/sitemap/0.9",
		Entries: sorted,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}

	out := append([]byte(xml.Header), payload...)
	out = append(out, '\n')
	return os.WriteFile(outputPath, out, 0o644)
}

func readDocMeta(path string) (docMeta, error) {
	var meta docMeta
	file, err := os.Open(path)
	if err != nil {
		return meta, err
	}
	defer file.Close()

	if _, err := frontmatter.Parse(file, &meta); err != nil {
		return docMeta{}, err
	}
	return meta, nil
}

func excluded(rel string, meta docMeta) bool {
	if meta.SitemapExclude || meta.Draft {
		return true
	}
	for _, re := range excludePathRes {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

func priority(rel string, meta docMeta) float64 {
	if meta.SitemapPriority > 0 {
		return meta.SitemapPriority
	}
	lower := strings.ToLower(rel)
	switch {
	case containsAny(lower, "index", "getting-started", "quickstart", "overview"):
		return 0.9
	case containsAny(lower, "api-reference", "guide", "tutorial"):
		return 0.8
	case containsAny(lower, "features", "advanced"):
		return 0.7
	case platformSuffixRe.MatchString(rel):
		return 0.6
	default:
		return 0.5
	}
}

func changeFrequency(rel string, meta docMeta) string {
	if meta.SitemapChangeFreq != "" {
		return meta.SitemapChangeFreq
	}
	if strings.Contains(strings.ToLower(rel), "api-reference") {
		return "weekly"
	}
	return "monthly"
}

func lastModified(path string, info os.FileInfo, meta docMeta) string {
	if meta.ExportedOn != "" {
		if exported, err := time.Parse(time.RFC3339, meta.ExportedOn); err == nil {
			return exported.UTC().Format("2006-01-02")
		}
	}
	if meta.SitemapLastMod != "" {
		return meta.SitemapLastMod
	}
	return info.ModTime().UTC().Format("2006-01-02")
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
