package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/saudsami/AgoraTools/internal/ctxlog"
	"github.com/saudsami/AgoraTools/internal/htmlconv"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "html2md <input-dir> <output-dir>",
	Short: "Convert a TypeDoc HTML API reference to Markdown",
	Long: `Converts a TypeDoc-generated HTML API reference to Markdown.

Preserves the folder structure, extracts the page title and lead
description into YAML front matter, and rewrites internal .html links
to their .md counterparts.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.Flags().Bool("create-index", false, "Write a README.md index of all converted pages")
	rootCmd.Flags().String("title", "API Reference", "Heading for the index README")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
}

func runConvert(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	inputDir, outputDir := args[0], args[1]
	if _, err := os.Stat(inputDir); err != nil {
		return fmt.Errorf("input directory: %w", err)
	}

	c := htmlconv.NewConverter(inputDir, outputDir)
	converted, failed, err := c.ConvertAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("conversion finished", "converted", converted, "failed", failed, "output", outputDir)

	if createIndex, _ := cmd.Flags().GetBool("create-index"); createIndex {
		title, _ := cmd.Flags().GetString("title")
		if err := c.WriteIndex(title); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d files failed to convert", failed)
	}
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
