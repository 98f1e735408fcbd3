// Package mdindex copies exported Markdown files into a parallel tree keyed
// by sequential numeric IDs and maintains a JSON index mapping each ID back
// to the original path and title. Re-running against an existing index keeps
// previously assigned IDs stable.
package mdindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/saudsami/AgoraTools/internal/ctxlog"
)

// Record is one index entry.
type Record struct {
	OriginalPath string `json:"original_path"`
	IndexedPath  string `json:"indexed_path"`
	Title        string `json:"title"`
}

// Indexer assigns IDs and writes the parallel tree.
type Indexer struct {
	root      string
	outputDir string
	indexName string

	mapping  map[string]Record // id -> record
	pathToID map[string]string // original rel path -> id
	nextID   int
}

// NewIndexer builds an Indexer over the exported tree at root.
func NewIndexer(root, outputDir string) *Indexer {
	return &Indexer{
		root:      root,
		outputDir: outputDir,
		indexName: "file_mapping.json",
		mapping:   map[string]Record{},
		pathToID:  map[string]string{},
		nextID:    1,
	}
}

// Run indexes every .md file under the root, copies it into the output tree
// under its ID, and writes the JSON index.
func (ix *Indexer) Run(ctx context.Context) (int, error) {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(ix.outputDir, 0o755); err != nil {
		return 0, err
	}
	if err := ix.loadExisting(); err != nil {
		logger.Warn("could not load existing mapping, starting fresh", "error", err)
		ix.mapping = map[string]Record{}
		ix.pathToID = map[string]string{}
		ix.nextID = 1
	}

	count := 0
	err := filepath.Walk(ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, err := filepath.Rel(ix.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		id, ok := ix.pathToID[rel]
		if !ok {
			id = strconv.Itoa(ix.nextID)
			ix.nextID++
		}

		indexed := filepath.Join(filepath.Dir(rel), id+".md")
		if err := copyInto(path, filepath.Join(ix.outputDir, indexed)); err != nil {
			return fmt.Errorf("index %s: %w", rel, err)
		}

		title, err := DocumentTitle(path)
		if err != nil {
			logger.Warn("no title extracted", "file", rel, "error", err)
		}

		ix.mapping[id] = Record{
			OriginalPath: rel,
			IndexedPath:  filepath.ToSlash(indexed),
			Title:        title,
		}
		ix.pathToID[rel] = id
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	return count, ix.writeIndex()
}

func (ix *Indexer) loadExisting() error {
	raw, err := os.ReadFile(filepath.Join(ix.outputDir, ix.indexName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &ix.mapping); err != nil {
		return err
	}

	maxID := 0
	for id, record := range ix.mapping {
		ix.pathToID[record.OriginalPath] = id
		if n, err := strconv.Atoi(id); err == nil && n > maxID {
			maxID = n
		}
	}
	ix.nextID = maxID + 1
	return nil
}

func (ix *Indexer) writeIndex() error {
	payload, err := json.MarshalIndent(ix.mapping, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ix.outputDir, ix.indexName), append(payload, '\n'), 0o644)
}

func copyInto(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0o644)
}

// DocumentTitle returns the document's title: the front-matter `title` field
// when present, otherwise the text of the first level-1 ATX heading.
func DocumentTitle(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var meta struct {
		Title string `yaml:"title"`
	}
	body, err := frontmatter.Parse(strings.NewReader(string(raw)), &meta)
	if err != nil {
		body = raw
	}
	if meta.Title != "" {
		return meta.Title, nil
	}

	if title := firstHeading(body); title != "" {
		return title, nil
	}
	return "", fmt.Errorf("no title in front matter or headings")
}

// firstHeading parses the Markdown body and returns the text of the first
// level-1 heading.
func firstHeading(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = headingText(heading, source)
		return ast.WalkStop, nil
	})
	return strings.TrimSpace(title)
}

func headingText(heading *ast.Heading, source []byte) string {
	var b strings.Builder
	for c := heading.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}
