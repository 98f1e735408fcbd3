package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saudsami/AgoraTools/internal/bulk"
	"github.com/saudsami/AgoraTools/internal/catalog"
	"github.com/saudsami/AgoraTools/internal/config"
	"github.com/saudsami/AgoraTools/internal/ctxlog"
	"github.com/saudsami/AgoraTools/internal/mdindex"
	"github.com/saudsami/AgoraTools/internal/resolver"
	"github.com/saudsami/AgoraTools/internal/sitemap"
	"github.com/saudsami/AgoraTools/internal/ui"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "mdx2md <file.mdx>",
	Short: "Convert MDX documentation to plain Markdown",
	Long: `Converts Agora MDX documentation sources to plain Markdown.

Expands imports, resolves platform and product wrappers, substitutes
variables, rewrites links and images, and writes a self-contained .md file.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var bulkCmd = &cobra.Command{
	Use:   "bulk [start-dir]",
	Short: "Export every document under the docs tree, per platform",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBulk,
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap <exported-dir>",
	Short: "Generate sitemap.xml for an exported documentation tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitemap,
}

var indexCmd = &cobra.Command{
	Use:   "index <exported-dir>",
	Short: "Copy exported files under sequential IDs with a JSON mapping",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(sitemapCmd)
	rootCmd.AddCommand(indexCmd)

	rootCmd.PersistentFlags().StringP("docs", "d", "", "Docs repository root (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringP("platform", "p", "", "Target platform (android, ios, web, ...)")
	rootCmd.Flags().String("product", "", "Product identifier (inferred from path when omitted)")
	rootCmd.Flags().StringP("output", "o", "", "Output file or directory")

	bulkCmd.Flags().StringP("output", "o", "", "Output directory")
	bulkCmd.Flags().IntP("workers", "w", 0, "Conversion worker count")

	sitemapCmd.Flags().StringP("output", "o", "sitemap.xml", "Output file")
	sitemapCmd.Flags().String("base-url", "", "Site base URL (overrides config)")

	indexCmd.Flags().StringP("output", "o", "", "Output directory for the indexed tree")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// commandContext builds the run context with a logger at the configured
// verbosity.
func commandContext(cmd *cobra.Command) context.Context {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose || config.GetVerbose() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return ctxlog.WithLogger(context.Background(), logger)
}

// docsRoot resolves the docs tree root: flag, then config, then an upward
// search from the source file for shared/variables/global.js.
func docsRoot(cmd *cobra.Command, sourcePath string) (string, error) {
	if docs, _ := cmd.Flags().GetString("docs"); docs != "" {
		return filepath.Abs(docs)
	}
	if docs := config.GetDocsPath(); docs != "" && docs != "." {
		return filepath.Abs(docs)
	}
	if sourcePath != "" {
		if root, ok := findDocsRoot(sourcePath); ok {
			return root, nil
		}
	}
	return filepath.Abs(".")
}

func findDocsRoot(sourcePath string) (string, bool) {
	dir := filepath.Dir(sourcePath)
	for {
		if _, err := os.Stat(config.GlobalVariablesPath(dir)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// productsFile locates products.js. The docs repository keeps data/v2 beside
// the docs tree, one level above the directory holding shared/variables.
func productsFile(docsDir string) string {
	return config.ProductsPath(filepath.Dir(docsDir))
}

// buildResolver loads the variable catalogs and assembles the resolver.
func buildResolver(docsDir string) (*resolver.Resolver, *catalog.Catalogs, error) {
	catalogs, err := catalog.Load(
		config.GlobalVariablesPath(docsDir),
		config.ProductVariablesPath(docsDir),
		config.PlatformVariablesPath(docsDir),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("loading variable catalogs: %w", err)
	}
	r := resolver.New(catalogs,
		resolver.WithSiteBaseURL(config.GetSiteBaseURL()),
		resolver.WithMaxImportDepth(config.GetImportDepth()),
	)
	return r, catalogs, nil
}

// platformOptions returns the platforms offered by the picker: the product's
// latest platforms when known, otherwise every platform in the catalog.
func platformOptions(product string, products catalog.ProductPlatforms, catalogs *catalog.Catalogs) []string {
	if platforms, ok := products[product]; ok && len(platforms) > 0 {
		return platforms
	}
	options := make([]string, 0, len(catalogs.Platform))
	for name := range catalogs.Platform {
		options = append(options, name)
	}
	sort.Strings(options)
	return options
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := ctxlog.FromContext(ctx)

	sourcePath, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("source file: %w", err)
	}

	docsDir, err := docsRoot(cmd, sourcePath)
	if err != nil {
		return err
	}

	r, catalogs, err := buildResolver(docsDir)
	if err != nil {
		return err
	}

	products, err := catalog.LoadProducts(productsFile(docsDir))
	if err != nil {
		logger.Debug("products catalog unavailable", "error", err)
		products = catalog.ProductPlatforms{}
	}

	if product, _ := cmd.Flags().GetString("product"); product != "" {
		config.SetProduct(product)
	}
	product := config.GetProduct()
	if product == "" {
		product, err = catalog.InferProduct(sourcePath, docsDir, catalogs.Product)
		if err != nil {
			return fmt.Errorf("product not given and not inferable: %w", err)
		}
		config.SetProduct(product)
		logger.Debug("inferred product", "product", product)
	}

	if platform, _ := cmd.Flags().GetString("platform"); platform != "" {
		config.SetPlatform(platform)
	}
	platform := config.GetPlatform()
	if platform == "" {
		platform, err = ui.Pick("Select target platform", platformOptions(product, products, catalogs))
		if err != nil {
			return err
		}
		config.SetPlatform(platform)
	}

	output, _ := cmd.Flags().GetString("output")
	outputPath := output
	if !strings.HasSuffix(output, ".md") {
		if output != "" {
			config.SetOutputDir(output)
		}
		base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
		outputPath = filepath.Join(config.GetOutputDir(), base+".md")
	}

	result, err := r.ResolveFile(ctx, resolver.Context{
		Product:    product,
		Platform:   platform,
		DocsDir:    docsDir,
		SourcePath: sourcePath,
		OutputDir:  filepath.Dir(outputPath),
	})
	if err != nil {
		return err
	}
	if err := resolver.WriteResult(outputPath, result); err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		logger.Warn("asset not copied", "ref", warning.Ref, "error", warning.Err)
	}
	logger.Info("converted", "title", result.Title, "platform", platform, "output", outputPath)
	return nil
}

func runBulk(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	docsDir, err := docsRoot(cmd, "")
	if err != nil {
		return err
	}

	r, _, err := buildResolver(docsDir)
	if err != nil {
		return err
	}
	products, err := catalog.LoadProducts(productsFile(docsDir))
	if err != nil {
		return fmt.Errorf("loading products catalog: %w", err)
	}

	startDir := ""
	if len(args) > 0 {
		startDir = args[0]
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = config.GetOutputDir()
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = config.GetWorkers()
	}

	report, err := bulk.NewExporter(r, products).Export(ctx, bulk.Options{
		DocsDir:   docsDir,
		StartDir:  startDir,
		OutputDir: output,
		Workers:   workers,
	})
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	if report.Failed > 0 {
		return fmt.Errorf("%d documents failed to convert", report.Failed)
	}
	return nil
}

func runSitemap(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := ctxlog.FromContext(ctx)

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = strings.TrimSuffix(config.GetSiteBaseURL(), "/en")
	}
	output, _ := cmd.Flags().GetString("output")

	g := sitemap.NewGenerator(baseURL)
	if err := g.ScanDirectory(ctx, args[0]); err != nil {
		return err
	}
	if err := g.WriteXML(output); err != nil {
		return err
	}
	logger.Info("sitemap written", "entries", g.Len(), "output", output)
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := ctxlog.FromContext(ctx)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = args[0] + "_indexed"
	}

	count, err := mdindex.NewIndexer(args[0], output).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("index written", "files", count, "output", output)
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
