package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DocsPath    string `mapstructure:"docs_path"`
	OutputDir   string `mapstructure:"output_dir"`
	SiteBaseURL string `mapstructure:"site_base_url"`
	Platform    string `mapstructure:"platform"`
	Product     string `mapstructure:"product"`
	Workers     int    `mapstructure:"workers"`
	ImportDepth int    `mapstructure:"import_depth"`
	Verbose     bool   `mapstructure:"verbose"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("docs_path", ".")
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("site_base_url", "https://docs.agora.io/en")
	viper.SetDefault("platform", "")
	viper.SetDefault("product", "")
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("import_depth", 40)
	viper.SetDefault("verbose", false)

	viper.SetConfigName("mdx2md")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "mdx2md"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MDX2MD")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetDocsPath returns the docs repository path with tilde expansion
func GetDocsPath() string {
	return expandTilde(viper.GetString("docs_path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutputDir returns the base output directory
func GetOutputDir() string {
	return expandTilde(viper.GetString("output_dir"))
}

// GetSiteBaseURL returns the published documentation root URL
func GetSiteBaseURL() string {
	return viper.GetString("site_base_url")
}

// GetPlatform returns the default target platform
func GetPlatform() string {
	return viper.GetString("platform")
}

// GetProduct returns the default product identifier
func GetProduct() string {
	return viper.GetString("product")
}

// GetWorkers returns the bulk export worker count
func GetWorkers() int {
	if w := viper.GetInt("workers"); w > 0 {
		return w
	}
	return 1
}

// GetImportDepth returns the import recursion limit
func GetImportDepth() int {
	return viper.GetInt("import_depth")
}

// GetVerbose returns whether debug logging is enabled
func GetVerbose() bool {
	return viper.GetBool("verbose")
}

// SetPlatform sets the target platform at runtime
func SetPlatform(platform string) {
	viper.Set("platform", platform)
	C.Platform = platform
}

// SetProduct sets the product at runtime
func SetProduct(product string) {
	viper.Set("product", product)
	C.Product = product
}

// SetOutputDir sets the output directory at runtime
func SetOutputDir(dir string) {
	viper.Set("output_dir", dir)
	C.OutputDir = dir
}

// GlobalVariablesPath returns the path of global.js inside the docs tree
func GlobalVariablesPath(docsDir string) string {
	return filepath.Join(docsDir, "shared", "variables", "global.js")
}

// ProductVariablesPath returns the path of product.js inside the docs tree
func ProductVariablesPath(docsDir string) string {
	return filepath.Join(docsDir, "shared", "variables", "product.js")
}

// PlatformVariablesPath returns the path of platform.js inside the docs tree
func PlatformVariablesPath(docsDir string) string {
	return filepath.Join(docsDir, "shared", "variables", "platform.js")
}

// ProductsPath returns the path of products.js inside the Docs repository
func ProductsPath(repoDir string) string {
	return filepath.Join(repoDir, "data", "v2", "products.js")
}
