package resolver

import (
	"regexp"
	"slices"
	"strings"
)

// Wrapper tag names and the legacy spelling of their inclusion attribute.
const (
	platformWrapperTag = "PlatformWrapper"
	productWrapperTag  = "ProductWrapper"
)

var legacyInclusionAttr = map[string]string{
	platformWrapperTag: "platform",
	productWrapperTag:  "product",
}

// FilterPlatformWrappers resolves every PlatformWrapper tag against the
// selected platform: content inside a wrapper survives (markers stripped)
// only when the selection passes the wrapper's allowed/notAllowed lists.
func FilterPlatformWrappers(text, platform, file string) (string, error) {
	return filterWrappers(text, platformWrapperTag, platform, file)
}

// FilterProductWrappers applies the identical algorithm for ProductWrapper
// tags against the selected product.
func FilterProductWrappers(text, product, file string) (string, error) {
	return filterWrappers(text, productWrapperTag, product, file)
}

// filterWrappers repeats the scan-and-decide step until no wrapper of the
// given type remains; a single pass does not suffice with sibling wrappers,
// since each decision rewrites the text the next scan runs over.
func filterWrappers(text, tagName, selected, file string) (string, error) {
	for {
		span, err := FindTag(text, tagName)
		if err != nil {
			if tagErr, ok := err.(*MalformedTagError); ok {
				tagErr.File = file
			}
			return "", err
		}
		if span == nil {
			break
		}

		// Same-type wrappers nested inside each other have no defined
		// semantics upstream; fail loudly instead of guessing.
		if containsOpening(span.Inner, tagName) {
			return "", &UnsupportedNestingError{Tag: tagName, File: file}
		}

		replacement := ""
		if wrapperKeeps(span.Attrs, tagName, selected) {
			replacement = span.Inner
		}
		text = text[:span.Start] + replacement + text[span.End:]
	}

	return stripOrphanedClosers(text, tagName), nil
}

// wrapperKeeps decides whether the wrapper's content survives: an `allowed`
// list keeps content only for listed selections, `notAllowed` only for
// unlisted ones, and a wrapper with neither attribute is a pass-through.
func wrapperKeeps(rawAttrs, tagName, selected string) bool {
	attrs := ParseAttrs(rawAttrs)

	inclusion, ok := attrs["allowed"]
	if !ok {
		inclusion, ok = attrs[legacyInclusionAttr[tagName]]
	}
	if ok {
		return slices.Contains(ParseList(inclusion), selected)
	}

	if exclusion, ok := attrs["notAllowed"]; ok {
		return !slices.Contains(ParseList(exclusion), selected)
	}

	return true
}

// containsOpening reports whether text holds an opening (non-self-closing)
// tag of the given name.
func containsOpening(text, name string) bool {
	re := tokenPattern(name)
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] < 0 {
			continue
		}
		if text[loc[4]:loc[5]] != "/" {
			return true
		}
	}
	return false
}

// stripOrphanedClosers removes closing tags left behind by partially
// authored wrappers, matching the upstream tooling's final cleanup.
func stripOrphanedClosers(text, tagName string) string {
	re := regexp.MustCompile(`</` + regexp.QuoteMeta(tagName) + `\s*>\n?`)
	if !strings.Contains(text, "</"+tagName) {
		return text
	}
	return re.ReplaceAllString(text, "")
}
