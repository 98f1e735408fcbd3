// Package bulk walks a documentation tree and exports every document once
// per eligible platform. Each document conversion is an independent unit of
// work: failures are isolated and aggregated, never fatal to the batch.
package bulk

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"

	"github.com/saudsami/AgoraTools/internal/catalog"
	"github.com/saudsami/AgoraTools/internal/ctxlog"
	"github.com/saudsami/AgoraTools/internal/resolver"
)

// Options configures one bulk export run.
type Options struct {
	DocsDir   string // root of the docs source tree
	StartDir  string // optional subfolder to start from, relative to DocsDir
	OutputDir string // base output folder for generated .md files
	Workers   int    // conversion worker count, minimum 1
}

// Exporter drives a bulk export over a shared resolver and product catalog.
type Exporter struct {
	resolver *resolver.Resolver
	products catalog.ProductPlatforms
}

// NewExporter builds an Exporter.
func NewExporter(r *resolver.Resolver, products catalog.ProductPlatforms) *Exporter {
	return &Exporter{resolver: r, products: products}
}

// Top-level folders that never contain exportable documents.
var skipFolders = map[string]bool{
	"shared":    true,
	".github":   true,
	"use-cases": true,
	"assets":    true,
}

// exportMeta is the front-matter surface the exporter cares about.
type exportMeta struct {
	PlatformSelector  *bool    `yaml:"platform_selector"`
	ExcludedPlatforms []string `yaml:"excluded_platforms"`
}

type job struct {
	source   string
	output   string
	platform string
	product  string
	docsDir  string
}

// Export walks the tree, plans one conversion per (document, platform), and
// runs the conversions on a bounded worker pool. The returned report holds
// every per-file outcome; the error covers only walk-level failures.
func (e *Exporter) Export(ctx context.Context, opts Options) (*Report, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := ctxlog.FromContext(ctx)

	jobs, skipped, err := e.plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Skipped: skipped}

	jobCh := make(chan job)
	resultCh := make(chan FileResult)

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				resultCh <- e.convert(ctxlog.With(ctx, "source", j.source, "platform", j.platform), j)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()
	go func() {
		for _, j := range jobs {
			jobCh <- j
		}
		close(jobCh)
	}()

	for result := range resultCh {
		if result.Err != nil {
			logger.Error("conversion failed", "source", result.Source, "platform", result.Platform, "error", result.Err)
		}
		report.add(result)
	}
	return report, nil
}

// plan discovers exportable documents and expands them into per-platform
// jobs. Documents whose first path segment names no known product are
// counted as skipped.
func (e *Exporter) plan(ctx context.Context, opts Options) ([]job, int, error) {
	logger := ctxlog.FromContext(ctx)
	startDir := filepath.Join(opts.DocsDir, opts.StartDir)

	var jobs []job
	skipped := 0
	err := filepath.Walk(startDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipFolders[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(path), ".mdx") {
			return nil
		}

		rel, err := filepath.Rel(opts.DocsDir, path)
		if err != nil {
			return err
		}
		product := strings.Split(filepath.ToSlash(rel), "/")[0]
		platforms, ok := e.products[product]
		if !ok {
			logger.Warn("no product mapping, skipping", "file", rel)
			skipped++
			return nil
		}

		meta, err := readExportMeta(path)
		if err != nil {
			logger.Warn("unreadable front matter, skipping", "file", rel, "error", err)
			skipped++
			return nil
		}

		outputDir := filepath.Join(opts.OutputDir, filepath.Dir(rel))
		baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		if meta.PlatformSelector != nil && !*meta.PlatformSelector {
			// Single export: one platform stands in for all of them.
			if len(platforms) == 0 {
				skipped++
				return nil
			}
			jobs = append(jobs, job{
				source:   path,
				output:   filepath.Join(outputDir, baseName+".md"),
				platform: platforms[0],
				product:  product,
				docsDir:  opts.DocsDir,
			})
			return nil
		}

		for _, platform := range platforms {
			if slices.Contains(meta.ExcludedPlatforms, platform) {
				continue
			}
			jobs = append(jobs, job{
				source:   path,
				output:   filepath.Join(outputDir, baseName+"_"+platform+".md"),
				platform: platform,
				product:  product,
				docsDir:  opts.DocsDir,
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return jobs, skipped, nil
}

func (e *Exporter) convert(ctx context.Context, j job) FileResult {
	rctx := resolver.Context{
		Product:    j.product,
		Platform:   j.platform,
		DocsDir:    j.docsDir,
		SourcePath: j.source,
		OutputDir:  filepath.Dir(j.output),
	}

	result, err := e.resolver.ResolveFile(ctx, rctx)
	if err != nil {
		return FileResult{Source: j.source, Output: j.output, Platform: j.platform, Err: err}
	}
	if err := resolver.WriteResult(j.output, result); err != nil {
		return FileResult{Source: j.source, Output: j.output, Platform: j.platform, Err: err}
	}
	return FileResult{
		Source:   j.source,
		Output:   j.output,
		Platform: j.platform,
		Title:    result.Title,
		Warnings: result.Warnings,
	}
}

func readExportMeta(path string) (exportMeta, error) {
	var meta exportMeta
	file, err := os.Open(path)
	if err != nil {
		return meta, err
	}
	defer file.Close()

	if _, err := frontmatter.Parse(file, &meta); err != nil {
		return exportMeta{}, err
	}
	return meta, nil
}
