// Package main provides the okscene CLI, which creates, inspects
// and renders scene documents.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/benoitkugler/okscene/config"
	"github.com/benoitkugler/okscene/scene"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Render

	outputPath string
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:   "okscene",
	Short: "okscene - scene documents made of layers, rectangles and slices",
	Long: `okscene creates, inspects and renders scene documents.

Documents are XML files, optionally compressed (.gz or .zst).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write a demo document",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

var treeCmd = &cobra.Command{
	Use:   "tree <document>",
	Short: "Print the nodes of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Render a document to PNG, PDF or SVG",
	Long: `Render a document to PNG, PDF or SVG, chosen by the output extension.

Examples:
  okscene render doc.xml -o doc.png
  okscene render doc.xml.gz -o doc.pdf --config render.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var slicesCmd = &cobra.Command{
	Use:   "slices <document>",
	Short: "Export every slice of a document as a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlices,
}

var importCmd = &cobra.Command{
	Use:   "import <image.svg>",
	Short: "Convert the rectangles of an SVG image to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Render configuration file (.toml or .yaml)")

	for _, cmd := range []*cobra.Command{demoCmd, renderCmd, importCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (required)")
		cmd.MarkFlagRequired("output")
	}
	slicesCmd.Flags().StringVarP(&outputDir, "dir", "d", ".", "Output directory")

	rootCmd.AddCommand(demoCmd, treeCmd, renderCmd, slicesCmd, importCmd)
}

// setup loads the configuration and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})
	scene.SetLogger(slog.New(handler))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
