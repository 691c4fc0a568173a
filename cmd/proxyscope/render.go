package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyscope/internal/config"
	"github.com/nao1215/proxyscope/internal/database"
	"github.com/nao1215/proxyscope/internal/dataset"
	plog "github.com/nao1215/proxyscope/internal/log"
	"github.com/nao1215/proxyscope/internal/model"
	"github.com/nao1215/proxyscope/internal/pipeline"
	"github.com/nao1215/proxyscope/internal/report"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [csv...]",
		Short: "Render the risk charts of one or more CSV files",
		Long: `Render loads each CSV file, drops rows without a usable FRAUD_SCORE, and
writes four charts to the output directory:

  safe_report_1_fraud_score_distribution.png  fraud scores 70-79, 80-89, 90-100
  safe_report_2_country_distribution.png      top 10 countries (score > 75)
  safe_report_3_isp_distribution.png          top 5 ISPs (score > 75)
  geographic_heatmap.png                      high-risk proxies per country
                                              (countries without a known
                                              location are listed, not drawn)

A summary report is printed afterwards. Each run is also recorded in the
history database unless --no-history is given.

Examples:
  # Render PROXYSCOPEW.csv in the current directory
  proxyscope render

  # Render two exports concurrently into ./charts (one subdirectory each)
  proxyscope render -d charts january.csv february.csv

  # Write a Markdown report next to the charts
  proxyscope render -m -o charts/report.md data.csv

Configuration file (.proxyscope) example:
  highlight:
    - United States
    - Russia
  charts:
    geo:
      file: geographic_heatmap.svg
      width: 1600
      height: 800`,
		Args: cobra.ArbitraryArgs,
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("output-dir", "d", config.DefaultOutputDir,
		"Directory the charts are written to")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files processed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .proxyscope in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildRenderConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signalContext(cmd.Context(), logger)
	defer stop()

	return runRender(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildRenderConfig creates a Config from the render command flags.
func buildRenderConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if len(args) > 0 {
		cfg.DataFiles = uniqueFiles(args)
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	if err := loadSettings(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// uniqueFiles drops repeated paths, keeping the first occurrence.
func uniqueFiles(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// loadSettings reads the --config flag and loads the configuration file.
// An explicitly named file must exist; otherwise the lookup is silent.
func loadSettings(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.Settings, err = config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	return nil
}

// setupLogger creates the redacting logger used by every command.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return plog.NewSecureLogger(w, verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// runRender analyzes every data file and writes the charts and the report.
func runRender(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting render",
		"files", len(cfg.DataFiles),
		"outputDir", cfg.OutputDir,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var history pipeline.HistoryStore
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		history = db
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	batch := len(cfg.DataFiles) > 1 && cfg.BatchSize > 1
	var sourceDirs map[string]string
	if len(cfg.DataFiles) > 1 {
		sourceDirs = pipeline.SourceDirs(cfg.DataFiles)
	}
	newPipeline := func(progress io.Writer) *pipeline.Pipeline {
		configOpts := []pipeline.DefaultPipelineOption{
			pipeline.WithPipelineExport(cfg.OutputDir, cfg),
			pipeline.WithPipelineSourceDirs(sourceDirs),
			pipeline.WithPipelineStepLogger(logger),
		}
		if history != nil {
			configOpts = append(configOpts, pipeline.WithPipelineHistory(history))
		}
		loader := dataset.NewLoader(dataset.WithLogger(logger))
		return pipeline.DefaultPipeline(loader.Load,
			[]pipeline.Option{pipeline.WithLogger(logger), pipeline.WithProgress(progress)},
			configOpts...)
	}

	var analyses []*model.Analysis
	if batch {
		var err error
		analyses, err = runBatchRender(ctx, cfg, logger, out, func() *pipeline.Pipeline { return newPipeline(nil) })
		if err != nil {
			return err
		}
	} else {
		for _, source := range cfg.DataFiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			a := model.NewAnalysis(nil)
			a.Source = source
			_ = newPipeline(out).Execute(ctx, a) //nolint:errcheck // Error is stored in analysis
			printOutcome(out, a)
			analyses = append(analyses, a)
		}
	}

	var completed []*model.Analysis
	failed := 0
	for _, a := range analyses {
		switch {
		case a == nil:
		case !a.Failed():
			completed = append(completed, a)
		case !dataset.IsNotFound(a.Error):
			failed++
		}
	}

	if len(completed) > 0 {
		if err := outputReport(cfg, out, completed); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", failed, len(cfg.DataFiles))
	}
	return nil
}

// runBatchRender analyzes several files concurrently and prints one line
// per finished file.
func runBatchRender(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, factory func() *pipeline.Pipeline) ([]*model.Analysis, error) {
	fmt.Fprintf(out, "Analyzing %d files (concurrency: %d)...\n\n", len(cfg.DataFiles), cfg.BatchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	analyses := make([]*model.Analysis, len(cfg.DataFiles))
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.DataFiles, func(a *model.Analysis, index int) {
		mu.Lock()
		defer mu.Unlock()

		analyses[index] = a
		fmt.Fprintf(out, "[%d/%d] %s\n", index+1, len(cfg.DataFiles), a.Source)
		printOutcome(out, a)
	})

	fmt.Fprintf(out, "\nBatch completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return analyses, err
}

// printOutcome prints the closing line of one analyzed file.
func printOutcome(out io.Writer, a *model.Analysis) {
	switch {
	case !a.Failed():
		fmt.Fprintln(out, "\nAnalysis complete. All charts have been generated and saved.")
	case dataset.IsNotFound(a.Error):
		fmt.Fprintf(out, "Error: The file '%s' was not found.\n", a.Source)
	default:
		fmt.Fprintf(out, "Error: %s\n", a.ErrorMessage)
	}
}

// outputReport writes the report in the requested format to the report
// file or to out.
func outputReport(cfg *config.Config, out io.Writer, analyses []*model.Analysis) error {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	} else {
		fmt.Fprintln(out)
	}

	w := newReportWriter(cfg.JSONReport, cfg.MarkdownReport, out)
	var err error
	if len(analyses) == 1 {
		_, err = w.Write(analyses[0])
	} else {
		_, err = w.WriteBatch(analyses)
	}
	return err
}

// newReportWriter selects the report writer for the output flags.
func newReportWriter(jsonOutput, markdownOutput bool, out io.Writer) report.Writer {
	switch {
	case jsonOutput:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case markdownOutput:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}
