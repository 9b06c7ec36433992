package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lectio",
	Short: "Document structure and relevance engine",
	Long: `Lectio extracts heading outlines from document collections, ranks
sections against a persona and job-to-be-done, and produces refined
summaries of the most relevant sections.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// execute runs the root command
func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
