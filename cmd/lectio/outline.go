package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/lectio"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the heading outline of a single document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline := lectio.New()
		defer pipeline.Close()

		ol, err := pipeline.OpenDocument(args[0]).Outline()
		if err != nil {
			return err
		}

		type entry struct {
			Level string `json:"level"`
			Text  string `json:"text"`
			Page  int    `json:"page"`
		}
		out := struct {
			Document   string  `json:"document"`
			Title      string  `json:"title,omitempty"`
			Entries    []entry `json:"entries"`
			Degenerate bool    `json:"degenerate,omitempty"`
		}{
			Document:   args[0],
			Title:      ol.Title,
			Degenerate: ol.Degenerate,
			Entries:    []entry{},
		}
		for _, e := range ol.Entries {
			out.Entries = append(out.Entries, entry{
				Level: e.Level.String(),
				Text:  e.Text,
				Page:  e.Page,
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding outline: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}
