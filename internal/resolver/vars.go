package resolver

import (
	"regexp"
)

// Variable tags are self-closing and carry a single `k` attribute naming the
// catalog key. The three tag syntaxes are distinct, but substitution runs
// global first, then product, then platform, for reproducible output.
var (
	vgTagRe  = regexp.MustCompile(`<Vg\s+k\s*=\s*["'](\w+)["']\s*/?>`)
	vpdTagRe = regexp.MustCompile(`<Vpd\s+k\s*=\s*["'](\w+)["']\s*/?>`)
	vplTagRe = regexp.MustCompile(`<Vpl\s+k\s*=\s*["'](\w+)["']\s*/?>`)
)

// SubstituteVariables replaces every variable tag with its catalog value.
// A key absent from its catalog is an UnknownVariableError: emitting an
// empty string or leaving the tag in place would hand downstream consumers
// a document they must assume is fully resolved.
func (r *Resolver) SubstituteVariables(text string, ctx Context) (string, error) {
	text, err := substitutePass(text, vgTagRe, r.catalogs.Global, "global", ctx.SourcePath)
	if err != nil {
		return "", err
	}
	text, err = substitutePass(text, vpdTagRe, r.catalogs.Product[ctx.Product], "product", ctx.SourcePath)
	if err != nil {
		return "", err
	}
	return substitutePass(text, vplTagRe, r.catalogs.Platform[ctx.Platform], "platform", ctx.SourcePath)
}

func substitutePass(text string, re *regexp.Regexp, catalog map[string]string, catalogName, file string) (string, error) {
	var missErr error
	out := re.ReplaceAllStringFunc(text, func(tag string) string {
		key := re.FindStringSubmatch(tag)[1]
		value, ok := catalog[key]
		if !ok {
			if missErr == nil {
				missErr = &UnknownVariableError{Key: key, Catalog: catalogName, File: file}
			}
			return tag
		}
		return value
	})
	if missErr != nil {
		return "", missErr
	}
	return out, nil
}
