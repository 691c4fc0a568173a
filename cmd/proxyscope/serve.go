package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyscope/internal/config"
	"github.com/nao1215/proxyscope/internal/dashboard"
	"github.com/nao1215/proxyscope/internal/dataset"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [csv]",
		Short: "Serve the risk charts on a local dashboard",
		Long: `Serve starts an HTTP dashboard that shows the four charts of a CSV file in a
two-by-two grid. The file is loaded on the first request and cached until
it changes on disk or the page's Reload button is pressed.

Endpoints:
  /                        dashboard page
  /charts/{kind}.{png|svg} one chart (kind: score, country, isp, geo)
  /api/analysis            analysis as JSON
  /reload                  POST to reload the file
  /healthz, /metrics       health check and Prometheus metrics

Examples:
  # Serve PROXYSCOPEW.csv on http://127.0.0.1:8501
  proxyscope serve

  # Serve another file on all interfaces
  proxyscope serve -l :8080 data.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr, "Address the dashboard listens on")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .proxyscope in current or home directory)")

	return cmd
}

// buildServeConfig creates a Config from the serve command flags.
func buildServeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.SaveToDB = false

	if len(args) > 0 {
		cfg.DataFiles = args
	}

	var err error
	cfg.ListenAddr, err = cmd.Flags().GetString("listen")
	if err != nil {
		return nil, err
	}

	if err := loadSettings(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildServeConfig(cmd, args)
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

	path := cfg.DataFiles[0]
	srv, err := dashboard.NewServer(path, cfg,
		dashboard.WithLogger(logger),
		dashboard.WithLoader(dataset.NewLoader(dataset.WithLogger(logger))),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", dashboard.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s/ (Ctrl+C to stop)\n", path, cfg.ListenAddr)

	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}
