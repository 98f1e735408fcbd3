package resolver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/saudsami/AgoraTools/internal/ctxlog"
)

var (
	imageRefRe  = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
	mdLinkRe    = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)
	globalKeyRe = regexp.MustCompile(`^\{\{(?:[Gg]lobal|GLOBAL)\.?([^}]+)\}\}(.*)$`)
)

// RewriteLinkTags converts `<Link to="...">text</Link>` tags into standard
// Markdown links. Targets of the form {{Global.KEY}}suffix resolve KEY
// against the global catalog; relative targets into the source tree map to
// the published documentation URL with the file extension stripped.
func (r *Resolver) RewriteLinkTags(text string, rctx Context) (string, error) {
	for {
		span, err := FindTag(text, "Link")
		if err != nil {
			if tagErr, ok := err.(*MalformedTagError); ok {
				tagErr.File = rctx.SourcePath
			}
			return "", err
		}
		if span == nil {
			return text, nil
		}

		attrs := ParseAttrs(span.Attrs)
		target, ok := attrs["to"]
		if !ok {
			target = attrs["target"]
		}

		url, err := r.linkURL(target, rctx)
		if err != nil {
			return "", err
		}

		display := strings.TrimSpace(span.Inner)
		text = text[:span.Start] + fmt.Sprintf("[%s](%s)", display, url) + text[span.End:]
	}
}

func (r *Resolver) linkURL(target string, rctx Context) (string, error) {
	if m := globalKeyRe.FindStringSubmatch(target); m != nil {
		key := strings.TrimSpace(m[1])
		base, ok := r.catalogs.Global[key]
		if !ok {
			return "", &UnknownVariableError{Key: key, Catalog: "global", File: rctx.SourcePath}
		}
		return base + m[2], nil
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "#") {
		return target, nil
	}

	return r.docURL(target, filepath.Dir(rctx.SourcePath), rctx.DocsDir, true), nil
}

// docURL maps a source-tree path to its published URL: resolve against the
// document's directory, strip the docs prefix, root at the site base URL,
// and optionally drop the file extension.
func (r *Resolver) docURL(target, baseDir, docsDir string, stripExt bool) string {
	rel := target
	if strings.HasPrefix(target, ".") {
		resolved := filepath.Join(baseDir, target)
		if relPath, err := filepath.Rel(docsDir, resolved); err == nil {
			rel = relPath
		}
	}
	rel = filepath.ToSlash(rel)
	if stripExt {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	}
	return r.siteBaseURL + "/" + strings.TrimPrefix(rel, "/")
}

// RewriteHyperlinks maps relative Markdown hyperlinks (not images) to the
// published documentation URL form. External and intra-page links pass
// through unchanged.
func (r *Resolver) RewriteHyperlinks(text, baseDir, docsDir string) string {
	var b strings.Builder
	last := 0
	for _, loc := range mdLinkRe.FindAllStringSubmatchIndex(text, -1) {
		// Image references are the asset rewriter's concern.
		if loc[0] > 0 && text[loc[0]-1] == '!' {
			continue
		}
		target := text[loc[2]:loc[3]]
		if strings.HasPrefix(target, "http") || strings.HasPrefix(target, "#") {
			continue
		}
		b.WriteString(text[last:loc[2]])
		b.WriteString(r.docURL(target, baseDir, docsDir, false))
		last = loc[3]
	}
	b.WriteString(text[last:])
	return b.String()
}

// RewriteImages copies every locally referenced image into the output asset
// directory and points the reference at `./images/<filename>`. Copying is
// best-effort per image: a missing source produces an AssetCopyWarning and
// the reference is left untouched, since a missing image is cosmetic where a
// missing import would mean an incomplete document.
func (r *Resolver) RewriteImages(ctx context.Context, text string, rctx Context) (string, []AssetCopyWarning) {
	refs := imageRefRe.FindAllStringSubmatch(text, -1)
	if len(refs) == 0 {
		return text, nil
	}

	logger := ctxlog.FromContext(ctx)
	imagesDir := filepath.Join(rctx.OutputDir, "images")

	var warnings []AssetCopyWarning
	seen := map[string]bool{}
	for _, m := range refs {
		ref := m[1]
		if seen[ref] || strings.HasPrefix(ref, "http") {
			continue
		}
		seen[ref] = true

		source := r.imageSourcePath(ref, rctx)
		filename := filepath.Base(ref)

		if err := copyFile(source, filepath.Join(imagesDir, filename)); err != nil {
			warning := AssetCopyWarning{Source: source, Ref: ref, Err: err}
			warnings = append(warnings, warning)
			logger.Warn("image not copied", "ref", ref, "source", source, "error", err)
			continue
		}
		text = strings.ReplaceAll(text, "("+ref+")", "(./images/"+filename+")")
	}
	return text, warnings
}

// imageSourcePath resolves an image reference: absolute references live
// under the shared assets directory, relative ones under the document's own
// directory.
func (r *Resolver) imageSourcePath(ref string, rctx Context) string {
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(rctx.DocsDir, "assets", ref)
	}
	return filepath.Join(filepath.Dir(rctx.SourcePath), ref)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
