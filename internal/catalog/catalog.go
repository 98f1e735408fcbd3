// Package catalog loads the documentation variable catalogs: the global
// key/value set from shared/variables/global.js and the per-product and
// per-platform dictionaries from product.js and platform.js. Catalogs are
// immutable after load and safe for concurrent readers.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Catalogs bundles the three variable mappings used during resolution.
type Catalogs struct {
	Global   map[string]string
	Product  map[string]map[string]string
	Platform map[string]map[string]string
}

var (
	exportConstRe = regexp.MustCompile(`^export const (\w+)\s*=\s*(.+?);?\s*$`)
	interpRe      = regexp.MustCompile(`\$\{(\w+)\}`)
)

// Load reads the three catalog source files and returns the assembled
// catalogs. Paths point at global.js, product.js and platform.js.
func Load(globalPath, productPath, platformPath string) (*Catalogs, error) {
	global, err := LoadGlobal(globalPath)
	if err != nil {
		return nil, err
	}
	product, err := LoadDimension(productPath)
	if err != nil {
		return nil, err
	}
	platform, err := LoadDimension(platformPath)
	if err != nil {
		return nil, err
	}
	return &Catalogs{Global: global, Product: product, Platform: platform}, nil
}

// LoadGlobal parses `export const NAME = 'value';` lines and resolves
// ${OTHER} references between values.
func LoadGlobal(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load global variables: %w", err)
	}
	defer file.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		matches := exportConstRe.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}
		vars[matches[1]] = strings.Trim(strings.TrimSpace(matches[2]), "'\"`")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load global variables: %w", err)
	}

	resolved := make(map[string]string, len(vars))
	for name, value := range vars {
		resolved[name] = interpolate(value, vars)
	}
	return resolved, nil
}

// interpolate expands ${NAME} references using the raw variable set.
// Unknown names expand to the empty string, matching the source corpus.
func interpolate(value string, vars map[string]string) string {
	for i := 0; i < len(vars)+1; i++ {
		match := interpRe.FindStringSubmatch(value)
		if match == nil {
			break
		}
		value = strings.ReplaceAll(value, match[0], vars[match[1]])
	}
	return value
}

// LoadDimension parses a `const data = { id: { KEY: 'value' } }` file into a
// two-level mapping. The files are JavaScript, not JSON: keys may be bare or
// quoted, values single- or double-quoted, comments and trailing commas
// allowed.
func LoadDimension(path string) (map[string]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dimension catalog: %w", err)
	}

	body, err := extractDataObject(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dict, err := parseDataObject(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

// extractDataObject returns the text between the braces of `const data = {...}`.
func extractDataObject(src string) (string, error) {
	start := strings.Index(src, "const data")
	if start < 0 {
		return "", fmt.Errorf("no `const data` declaration found")
	}
	open := strings.Index(src[start:], "{")
	if open < 0 {
		return "", fmt.Errorf("no opening brace after `const data`")
	}
	open += start

	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[open+1 : i], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces in `const data` object")
}

var (
	commentLineRe  = regexp.MustCompile(`(?m)//[^\n]*$`)
	commentBlockRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	entryKeyRe     = regexp.MustCompile(`^['"]?([\w-]+)['"]?\s*$`)
)

// parseDataObject walks `id: { KEY: 'value', ... }, ...` entries.
func parseDataObject(body string) (map[string]map[string]string, error) {
	body = commentBlockRe.ReplaceAllString(body, "")
	body = commentLineRe.ReplaceAllString(body, "")

	dict := make(map[string]map[string]string)
	rest := body
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		key := strings.TrimSuffix(strings.TrimSpace(rest[:open]), ":")
		key = strings.TrimPrefix(key, ",")
		key = strings.TrimSpace(key)
		matches := entryKeyRe.FindStringSubmatch(key)
		if matches == nil {
			return nil, fmt.Errorf("unparseable catalog key %q", key)
		}

		end := strings.Index(rest[open:], "}")
		if end < 0 {
			return nil, fmt.Errorf("unterminated catalog entry %q", matches[1])
		}
		end += open

		entries, err := parseEntryPairs(rest[open+1 : end])
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", matches[1], err)
		}
		dict[matches[1]] = entries
		rest = rest[end+1:]
	}
	return dict, nil
}

var pairRe = regexp.MustCompile(`['"]?([\w-]+)['"]?\s*:\s*(?:'([^']*)'|"([^"]*)"|` + "`([^`]*)`" + `)`)

func parseEntryPairs(body string) (map[string]string, error) {
	entries := make(map[string]string)
	for _, m := range pairRe.FindAllStringSubmatch(body, -1) {
		value := m[2]
		if value == "" {
			if m[3] != "" {
				value = m[3]
			} else {
				value = m[4]
			}
		}
		entries[m[1]] = value
	}
	if len(entries) == 0 && strings.TrimSpace(body) != "" {
		return nil, fmt.Errorf("no key/value pairs recognized")
	}
	return entries, nil
}
