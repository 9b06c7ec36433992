package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/lectio"
	"github.com/tsawler/lectio/config"
	"github.com/tsawler/lectio/engine"
)

var inputDir string
var outputDir string
var workers int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every collection under the input directory",
	Long: `Run discovers collection directories under the input directory (each
holding a manifest and its document files), processes them through the
full pipeline, and writes one ranked-output JSON file per collection
plus an aggregate processing report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		sugar := log.Sugar()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if workers > 0 {
			cfg.Engine.Workers = workers
		}

		pipeline, err := lectio.NewWithConfig(cfg)
		if err != nil {
			return err
		}
		defer pipeline.Close()
		pipeline.WithLogger(sugar)

		collections, err := engine.DiscoverCollections(inputDir)
		if err != nil {
			return err
		}
		if len(collections) == 0 {
			return fmt.Errorf("no collections found under %s", inputDir)
		}
		sugar.Infow("discovered collections", "count", len(collections))

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}

		summary := runSummary{Total: len(collections)}
		for _, col := range collections {
			res, err := pipeline.ProcessCollection(cmd.Context(), col)
			if err != nil {
				sugar.Errorw("collection failed", "collection", col.ID, "error", err)
				summary.Failed++
				summary.Errors = append(summary.Errors, collectionError{
					Collection: col.ID,
					Error:      err.Error(),
				})
				continue
			}

			outPath := filepath.Join(outputDir, outputFileName(col))
			if err := writeCollectionOutput(outPath, col, res); err != nil {
				sugar.Errorw("writing output failed", "collection", col.ID, "error", err)
				summary.Failed++
				summary.Errors = append(summary.Errors, collectionError{
					Collection: col.ID,
					Error:      err.Error(),
				})
				continue
			}

			summary.Successful++
			summary.TotalDocuments += res.Report.DocumentsProcessed
			summary.TotalSections += res.Report.SectionsRanked
			sugar.Infow("collection written",
				"collection", col.ID,
				"output", outPath,
				"sections", res.Report.SectionsRanked)
		}

		reportPath := filepath.Join(outputDir, "processing_report.json")
		if err := writeSummary(reportPath, &summary); err != nil {
			return err
		}
		sugar.Infow("run complete",
			"successful", summary.Successful,
			"failed", summary.Failed,
			"report", reportPath)

		if summary.Successful == 0 {
			return fmt.Errorf("all %d collections failed", summary.Total)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&inputDir, "input", "i", ".", "Directory containing collection directories")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "Directory for output JSON files")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Documents processed concurrently (0 = auto)")
	rootCmd.AddCommand(runCmd)
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
