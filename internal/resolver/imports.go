package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Import directives name a component and the .md/.mdx file providing it:
//
//	import GetStarted from '../shared/_get-started.mdx';
//
// The `@docs` alias roots a path at the docs directory. Star imports are
// side-effect-only and are deleted outright.
var (
	importRe     = regexp.MustCompile(`import\s+(\w+)\s+from\s+'(.+?\.mdx?)';?\n*`)
	starImportRe = regexp.MustCompile(`import\s+\*[\s\w]*from\s+'[^']*';?\n*`)
)

// expandImports reads the file, filters its wrappers for the selected
// platform and product, and inlines every import directive depth-first: a
// directive is fully expanded, nested imports included, before the parent
// text is reassembled. Downstream stages rely on receiving a flat,
// import-free document.
func (r *Resolver) expandImports(path string, rctx Context, depth int) (string, error) {
	if depth > r.maxImportDepth {
		return "", &ImportDepthError{Path: path, Depth: r.maxImportDepth}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &MissingImportError{Path: path, ImportedBy: rctx.SourcePath, Err: err}
	}
	text := string(raw)

	// Wrappers are filtered per file so a directive inside a non-matching
	// section never gets expanded.
	if text, err = FilterPlatformWrappers(text, rctx.Platform, path); err != nil {
		return "", err
	}
	if text, err = FilterProductWrappers(text, rctx.Product, path); err != nil {
		return "", err
	}

	directives := importRe.FindAllStringSubmatch(text, -1)
	if len(directives) == 0 {
		return text, nil
	}

	text = starImportRe.ReplaceAllString(text, "")
	text = importRe.ReplaceAllString(text, "")

	baseDir := filepath.Dir(path)
	for _, directive := range directives {
		name, target := directive[1], directive[2]

		target = strings.ReplaceAll(target, "@docs", rctx.DocsDir)
		// Variable-data imports are resolved by the substitution passes,
		// not inlined.
		if strings.Contains(target, "/data/variables") {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(baseDir, target)
		}

		content, err := r.expandImports(target, importedContext(rctx, path), depth+1)
		if err != nil {
			if missing, ok := err.(*MissingImportError); ok && missing.ImportedBy == path {
				missing.Path = directive[2]
			}
			return "", err
		}

		text = replaceUsages(text, name, content)
	}

	return text, nil
}

// importedContext rebinds the source path so nested failures name the file
// whose directive could not be resolved.
func importedContext(rctx Context, importingFile string) Context {
	rctx.SourcePath = importingFile
	return rctx
}

// replaceUsages swaps every `<Name ... />` usage tag for the imported
// content.
func replaceUsages(text, name, content string) string {
	usageRe := regexp.MustCompile(`<` + regexp.QuoteMeta(name) + `(?:\s[^>]*?)?/>`)
	return usageRe.ReplaceAllStringFunc(text, func(string) string { return content })
}
