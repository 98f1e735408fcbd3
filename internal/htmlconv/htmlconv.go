// Package htmlconv converts TypeDoc-generated HTML API references to
// Markdown, preserving the folder structure and rewriting internal links.
package htmlconv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/saudsami/AgoraTools/internal/ctxlog"
)

var (
	mdConverter     *converter.Converter
	mdConverterOnce sync.Once
)

// markdownConverter returns a shared converter that replaces base64 data URI
// images with alt-text placeholders instead of embedding the raw data URI.
func markdownConverter() *converter.Converter {
	mdConverterOnce.Do(func() {
		mdConverter = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		)
		mdConverter.Register.RendererFor("img", converter.TagTypeInline,
			func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
				src := dom.GetAttributeOr(n, "src", "")
				if !strings.HasPrefix(src, "data:") {
					return converter.RenderTryNext
				}
				if alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", "")); alt != "" {
					w.WriteString("[Image: " + alt + "]")
				}
				return converter.RenderSuccess
			},
			converter.PriorityEarly,
		)
	})
	return mdConverter
}

// Page is one converted document, used for the optional index.
type Page struct {
	Path  string // output path relative to the output dir, slash-separated
	Title string
}

// Converter walks an HTML tree and emits a parallel Markdown tree.
type Converter struct {
	inputDir  string
	outputDir string

	pages []Page
}

func NewConverter(inputDir, outputDir string) *Converter {
	return &Converter{inputDir: inputDir, outputDir: outputDir}
}

// ConvertAll converts every .html file under the input dir. It returns the
// number of converted and failed files; per-file failures are logged and do
// not stop the run.
func (c *Converter) ConvertAll(ctx context.Context) (converted, failed int, err error) {
	logger := ctxlog.FromContext(ctx)

	err = filepath.Walk(c.inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		rel, err := filepath.Rel(c.inputDir, path)
		if err != nil {
			return err
		}
		outRel := strings.TrimSuffix(rel, ".html") + ".md"

		title, convErr := c.convertFile(path, filepath.Join(c.outputDir, outRel))
		if convErr != nil {
			logger.Error("conversion failed", "file", rel, "error", convErr)
			failed++
			return nil
		}
		c.pages = append(c.pages, Page{Path: filepath.ToSlash(outRel), Title: title})
		converted++
		return nil
	})
	return converted, failed, err
}

// convertFile converts one HTML document and returns its title.
func (c *Converter) convertFile(src, dst string) (string, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	title, description, main := extractContent(doc)
	if main == nil {
		return "", fmt.Errorf("no content section found")
	}
	rewriteDocLinks(main)

	var rendered bytes.Buffer
	if err := html.Render(&rendered, main); err != nil {
		return "", err
	}
	markdown, err := markdownConverter().ConvertString(rendered.String())
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	markdown = cleanMarkdown(markdown)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	out := frontMatter(title, description) + markdown + "\n"
	return title, os.WriteFile(dst, []byte(out), 0o644)
}

// extractContent pulls the page title, the lead description, and the main
// content node out of a TypeDoc page.
func extractContent(doc *html.Node) (title, description string, main *html.Node) {
	if h1 := findNode(doc, "h1", nil); h1 != nil {
		title = strings.TrimSpace(nodeText(h1))
	}
	if comment := findNode(doc, "section", []string{"tsd-panel", "tsd-comment"}); comment != nil {
		if lead := findNode(comment, "div", []string{"lead"}); lead != nil {
			description = strings.TrimSpace(nodeText(lead))
		}
	}
	main = findNode(doc, "div", []string{"col-9", "col-content"})
	return title, description, main
}

// rewriteDocLinks rewrites relative .html hrefs to .md in place, keeping
// fragments. External links, fragments, and rooted paths are untouched.
func rewriteDocLinks(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			href := attr.Val
			if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") ||
				strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
				continue
			}
			if !strings.Contains(href, ".html") {
				continue
			}
			file, fragment, hasFragment := strings.Cut(href, "#")
			file = strings.Replace(file, ".html", ".md", 1)
			if hasFragment {
				file += "#" + fragment
			}
			n.Attr[i].Val = file
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		rewriteDocLinks(child)
	}
}

// findNode returns the first element with the given tag that carries all of
// the wanted classes.
func findNode(n *html.Node, tag string, classes []string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClasses(n, classes) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, tag, classes); found != nil {
			return found
		}
	}
	return nil
}

func hasClasses(n *html.Node, classes []string) bool {
	if len(classes) == 0 {
		return true
	}
	have := strings.Fields(dom.GetAttributeOr(n, "class", ""))
	for _, want := range classes {
		found := false
		for _, cls := range have {
			if cls == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

var (
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	emptyHeaderRe = regexp.MustCompile(`^#{1,6}\s*$`)
	multiSpaceRe  = regexp.MustCompile(` {2,}`)
)

// cleanMarkdown strips TypeDoc navigation leftovers and tightens whitespace.
func cleanMarkdown(markdown string) string {
	markdown = blankRunRe.ReplaceAllString(markdown, "\n\n")

	var kept []string
	for _, line := range strings.Split(markdown, "\n") {
		if strings.Contains(line, "tsd-navigation") || strings.Contains(line, "tsd-breadcrumb") ||
			strings.Contains(line, "Globals") {
			continue
		}
		if emptyHeaderRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	markdown = strings.Join(kept, "\n")
	markdown = multiSpaceRe.ReplaceAllString(markdown, " ")
	return strings.TrimSpace(markdown)
}

func frontMatter(title, description string) string {
	if description == "" {
		description = title
	}
	return fmt.Sprintf("---\ntitle: %s\ndescription: %s\n---\n\n", title, description)
}

// WriteIndex writes a README.md listing every converted page grouped by
// directory. Call after ConvertAll.
func (c *Converter) WriteIndex(heading string) error {
	groups := map[string][]Page{}
	for _, page := range c.pages {
		dir := filepath.ToSlash(filepath.Dir(page.Path))
		groups[dir] = append(groups[dir], page)
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	for _, dir := range dirs {
		if dir != "." {
			fmt.Fprintf(&b, "## %s\n\n", dir)
		}
		pages := groups[dir]
		sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
		for _, page := range pages {
			label := page.Title
			if label == "" {
				label = page.Path
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", label, page.Path)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(filepath.Join(c.outputDir, "README.md"), []byte(b.String()), 0o644)
}
