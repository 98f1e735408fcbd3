package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ProductPlatforms maps a product identifier to the platforms it currently
// ships on, as declared in data/v2/products.js.
type ProductPlatforms map[string][]string

var (
	productEntryRe = regexp.MustCompile(`(?s)id:\s*'([^']+)'.*?platforms:\s*{[^}]*latest:\s*\[([^\]]*)\]`)
	quotedRe       = regexp.MustCompile(`'([^']+)'`)
)

// LoadProducts parses products.js into a product → platforms mapping.
func LoadProducts(path string) (ProductPlatforms, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	mapping := make(ProductPlatforms)
	for _, m := range productEntryRe.FindAllStringSubmatch(string(raw), -1) {
		var platforms []string
		for _, q := range quotedRe.FindAllStringSubmatch(m[2], -1) {
			platforms = append(platforms, q[1])
		}
		mapping[m[1]] = platforms
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("load products: no product entries found in %s", path)
	}
	return mapping, nil
}

// InferProduct derives the product identifier from a document path: the first
// path segment under the docs directory, validated against the known product
// set. Returns an error instead of guessing when the segment is unknown.
func InferProduct(docPath, docsDir string, known map[string]map[string]string) (string, error) {
	rel, err := filepath.Rel(docsDir, docPath)
	if err != nil {
		return "", fmt.Errorf("infer product: %s is not under %s", docPath, docsDir)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 0 || parts[0] == "" || parts[0] == ".." {
		return "", fmt.Errorf("infer product: %s is not under %s", docPath, docsDir)
	}
	segment := parts[0]
	if _, ok := known[segment]; !ok {
		return "", fmt.Errorf("infer product: path segment %q does not name a known product", segment)
	}
	return segment, nil
}
