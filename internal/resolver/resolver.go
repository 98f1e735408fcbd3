// Package resolver implements the document resolution pipeline: recursive
// import expansion, platform/product conditional filtering, variable
// substitution, link and image rewriting, and finalization of one source
// document into plain Markdown.
package resolver

import (
	"context"
	"path/filepath"

	"github.com/saudsami/AgoraTools/internal/catalog"
)

// Context selects the dimensions for one conversion run. Immutable for the
// duration of a single document resolution.
type Context struct {
	Product    string // product identifier, explicit or inferred from path
	Platform   string // platform identifier from the known set
	DocsDir    string // root of the documentation source tree
	SourcePath string // absolute path of the document under conversion
	OutputDir  string // directory the .md artifact and images/ land in
}

// Result is the outcome of one successful document resolution.
type Result struct {
	Markdown string
	Title    string
	Warnings []AssetCopyWarning
}

// Resolver runs the pipeline against a fixed set of catalogs. It holds no
// mutable state, so one Resolver may serve many conversions concurrently.
type Resolver struct {
	catalogs       *catalog.Catalogs
	siteBaseURL    string
	maxImportDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSiteBaseURL sets the published documentation root used when rewriting
// relative hyperlinks.
func WithSiteBaseURL(url string) Option {
	return func(r *Resolver) { r.siteBaseURL = url }
}

// WithMaxImportDepth overrides the import recursion limit. The limit exists
// to turn cyclic import chains into a typed error instead of unbounded
// recursion.
func WithMaxImportDepth(depth int) Option {
	return func(r *Resolver) { r.maxImportDepth = depth }
}

const (
	defaultSiteBaseURL    = "https://docs.agora.io/en"
	defaultMaxImportDepth = 40
)

// New builds a Resolver over the given catalogs.
func New(catalogs *catalog.Catalogs, opts ...Option) *Resolver {
	r := &Resolver{
		catalogs:       catalogs,
		siteBaseURL:    defaultSiteBaseURL,
		maxImportDepth: defaultMaxImportDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveFile converts the document named by rctx.SourcePath into plain
// Markdown. Stages run to completion in order; every stage boundary holds a
// valid Markdown-with-embedded-tags document. Fatal failures abort the
// document and carry the failing path and tag text; image copy failures are
// collected as warnings instead.
func (r *Resolver) ResolveFile(ctx context.Context, rctx Context) (*Result, error) {
	text, err := r.expandImports(rctx.SourcePath, rctx, 0)
	if err != nil {
		return nil, err
	}

	// Import expansion filters wrappers per file; a final fixpoint pass
	// catches wrappers assembled across import boundaries.
	if text, err = FilterPlatformWrappers(text, rctx.Platform, rctx.SourcePath); err != nil {
		return nil, err
	}
	if text, err = FilterProductWrappers(text, rctx.Product, rctx.SourcePath); err != nil {
		return nil, err
	}

	if text, err = r.SubstituteVariables(text, rctx); err != nil {
		return nil, err
	}

	text, title := InjectTitle(text)

	text, warnings := r.RewriteImages(ctx, text, rctx)
	if text, err = r.RewriteLinkTags(text, rctx); err != nil {
		return nil, err
	}
	text = r.RewriteHyperlinks(text, filepath.Dir(rctx.SourcePath), rctx.DocsDir)

	text = CollapseBlankLines(text)

	return &Result{Markdown: text, Title: title, Warnings: warnings}, nil
}
