package resolver

import (
	"regexp"
	"strings"
	"sync"
)

// TagSpan describes one matched tag region: the raw attribute text of the
// opening tag, the inner content, and the offsets of the full span within the
// scanned text. Spans are computed on demand and never persisted.
type TagSpan struct {
	Name  string
	Attrs string
	Inner string
	Start int // offset of '<' of the opening tag
	End   int // offset just past '>' of the closing tag
}

// tagTokens caches per-tag-name token patterns. The pattern matches opening,
// self-closing and closing forms of a single tag name in one pass.
var (
	tagTokenMu    sync.Mutex
	tagTokenCache = map[string]*regexp.Regexp{}
)

func tokenPattern(name string) *regexp.Regexp {
	tagTokenMu.Lock()
	defer tagTokenMu.Unlock()
	if re, ok := tagTokenCache[name]; ok {
		return re
	}
	// group 1: attribute text of an opening or self-closing tag
	// group 2: the optional trailing slash marking self-closing
	re := regexp.MustCompile(`<` + regexp.QuoteMeta(name) + `((?:\s[^>]*?)?)(/?)>|</` + regexp.QuoteMeta(name) + `\s*>`)
	tagTokenCache[name] = re
	return re
}

// FindTag locates the first opening tag with the given name and its matching
// closing tag, skipping nested occurrences of the same name via a depth
// counter. Self-closing occurrences do not affect depth. Returns nil when no
// opening tag exists, and MalformedTagError when an opening tag has no
// matching close.
func FindTag(text, name string) (*TagSpan, error) {
	re := tokenPattern(name)

	var span *TagSpan
	depth := 0
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		isClosing := loc[2] < 0 // closing form has no attribute group
		if isClosing {
			if depth == 0 {
				continue // orphaned close before any open
			}
			depth--
			if depth == 0 {
				span.Inner = text[span.End:loc[0]]
				span.End = loc[1]
				return span, nil
			}
			continue
		}

		selfClosing := text[loc[4]:loc[5]] == "/"
		if selfClosing {
			continue
		}
		if depth == 0 {
			span = &TagSpan{
				Name:  name,
				Attrs: strings.TrimSpace(text[loc[2]:loc[3]]),
				Start: loc[0],
				End:   loc[1], // provisional: start of inner content
			}
		}
		depth++
	}

	if depth > 0 {
		return nil, &MalformedTagError{
			Tag:  name,
			Text: snippet(text[span.Start:]),
		}
	}
	return nil, nil
}

var attrPairRe = regexp.MustCompile(`([\w-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|\{([^}]*)\})`)

// ParseAttrs splits a raw attribute string into key/value pairs. Values may
// be double-quoted, single-quoted, or a braced expression (kept raw).
func ParseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPairRe.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if m[3] != "" {
			value = m[3]
		}
		if m[4] != "" {
			value = m[4]
		}
		attrs[m[1]] = value
	}
	return attrs
}

// ParseList splits a delimited list attribute value into items, tolerating
// bracketed array notation, single or double quotes, and whitespace:
// `["ios", 'android']` and `ios, android` both yield {ios, android}.
func ParseList(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "{")
	value = strings.TrimSuffix(value, "}")
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")

	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// snippet truncates tag text for error messages.
func snippet(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 120 {
		s = s[:120] + "…"
	}
	return s
}
