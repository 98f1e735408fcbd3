package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

var (
	tocExportRe = regexp.MustCompile(`export\s+const\s+toc\s*=\s*\[\s*\{\s*\}\s*\];?`)
	blankRunRe  = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
)

type headerMeta struct {
	Title string `yaml:"title"`
}

// InjectTitle extracts the title from the document's front-matter block,
// removes the block, and inserts the title as a level-1 heading in its
// place. Documents without front matter pass through unchanged.
func InjectTitle(text string) (string, string) {
	var meta headerMeta
	body, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return text, ""
	}

	out := tocExportRe.ReplaceAllString(string(body), "")
	if meta.Title == "" {
		return out, ""
	}
	return "# " + meta.Title + "\n\n" + strings.TrimLeft(out, "\n"), meta.Title
}

// CollapseBlankLines reduces runs of three or more consecutive blank lines
// to exactly one. Applying it twice yields the same text as once.
func CollapseBlankLines(text string) string {
	return blankRunRe.ReplaceAllString(text, "\n\n")
}

// WriteResult writes the resolved Markdown to the named output path,
// creating parent directories as needed.
func WriteResult(outputPath string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(result.Markdown), 0o644)
}
