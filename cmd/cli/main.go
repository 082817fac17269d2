package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ptengelmann/ProfilanIQ/adapters/csvparse"
	"github.com/ptengelmann/ProfilanIQ/adapters/excel"
	"github.com/ptengelmann/ProfilanIQ/api"
	"github.com/ptengelmann/ProfilanIQ/app"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/cache"
	"github.com/ptengelmann/ProfilanIQ/internal/config"
	"github.com/ptengelmann/ProfilanIQ/internal/pool"
	"github.com/ptengelmann/ProfilanIQ/internal/profiling"
	"github.com/ptengelmann/ProfilanIQ/internal/sampling"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

var (
	flagDelimiter  string
	flagSampleSize int
	flagFull       bool
	flagAlignRows  bool
	flagJSON       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "profilaniq",
		Short: "Statistical profiling for tabular data",
		Long:  "ProfilanIQ profiles CSV and Excel data: per-column statistics, Pearson correlations, and data-quality insights.",
	}

	profileCmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Profile a local .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&flagDelimiter, "delimiter", ",", "CSV field delimiter")
	profileCmd.Flags().IntVar(&flagSampleSize, "sample-size", 5000, "row budget before sampling kicks in")
	profileCmd.Flags().BoolVar(&flagFull, "full", false, "profile every row, no sampling")
	profileCmd.Flags().BoolVar(&flagAlignRows, "align-rows", false, "row-aligned correlation pairing")
	profileCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the raw report as JSON")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}

	rootCmd.AddCommand(profileCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProfile(cmd *cobra.Command, args []string) error {
	logger := internal.NewLogger(internal.LogLevelWarn)

	reader := excel.NewDataReader(args[0], logger)
	view, stats, err := reader.ReadTable(ports.ParseOptions{
		Delimiter:      flagDelimiter,
		SkipEmptyLines: true,
	})
	if err != nil {
		return err
	}
	if view.Len() == 0 {
		return fmt.Errorf("%s contains no data rows", args[0])
	}

	sampler := sampling.New()
	if !flagFull && flagSampleSize > 0 && view.Len() > flagSampleSize {
		var meta profile.SamplingMetadata
		view, meta = sampler.CreateSample(view, ports.SampleOptions{
			MaxSampleSize: flagSampleSize,
			Stratify:      true,
			Seed:          42,
		})
		fmt.Fprintf(os.Stderr, "sampled %d of %d rows\n", meta.SampleSize, meta.OriginalSize)
	}

	engine := profiling.New(pool.New(), logger, profiling.Options{})
	report, err := engine.Profile(context.Background(), view, ports.ProfileOptions{AlignRows: flagAlignRows})
	if err != nil {
		return err
	}

	if flagJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(report, stats)
	return nil
}

func printSummary(report *profile.Report, stats ports.ParseStats) {
	s := report.Summary
	fmt.Printf("rows: %d  columns: %d (%d numeric, %d categorical)  missing cells: %d\n",
		s.TotalRows, s.TotalColumns, s.NumericColumns, s.CategoricalColumns, s.TotalMissingValues)
	if stats.RowErrors > 0 {
		fmt.Printf("tolerated %d malformed row(s)\n", stats.RowErrors)
	}

	for _, pair := range report.Correlations.Strong {
		fmt.Printf("strong: %s ~ %s  r=%.3f (n=%d)\n", pair.ColumnA, pair.ColumnB, pair.Correlation, pair.SampleSize)
	}
	for _, insight := range report.Insights {
		fmt.Printf("[%s] %s: %s\n", insight.Severity, insight.Category, insight.Message)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := internal.NewDefaultLogger()

	engine := profiling.New(pool.New(), logger, profiling.Options{
		MaxWorkers:        cfg.Engine.MaxWorkers,
		ChunkSize:         cfg.Engine.ChunkSize,
		ParallelThreshold: cfg.Engine.ParallelThreshold,
		PoolTimeout:       cfg.Engine.PoolTimeout,
	})
	sampler := sampling.New()

	var reportCache ports.ReportCache
	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn("cache disabled: %v", err)
		} else {
			store.StartSweeper(context.Background(), time.Hour)
			reportCache = store
		}
	}

	profiles := app.NewProfileService(csvparse.New(logger), reportCache, sampler, engine, logger, cfg.Limits.RequestTimeout)
	compares := app.NewCompareService(sampler, engine, logger, cfg.Limits.RequestTimeout)

	api.StartDebugServer(cfg, logger)
	return api.NewServer(cfg, profiles, compares, logger).Run()
}
