package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyscope/internal/config"
	"github.com/nao1215/proxyscope/internal/database"
)

// errNoHistory is returned when the history database has not been created.
var errNoHistory = errors.New("no analysis history found (run 'proxyscope render' first)")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [csv]",
		Short: "Show past analyses recorded by render",
		Long: `History lists the analyses recorded in the history database by 'render'.

Without arguments it lists every recorded run, newest first. With a CSV
path it lists the runs of that file only. Use --id to print the full
report of one run.

Examples:
  # List all files that have been analyzed
  proxyscope history --list-sources

  # List the runs of one file
  proxyscope history PROXYSCOPEW.csv

  # Print run 12 as Markdown
  proxyscope history --id 12 --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sources", "L", false, "List all analyzed files")
	cmd.Flags().Int64P("id", "i", 0, "Print the report of the run with this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// A missing database means nothing was recorded yet; do not create one.
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		return errNoHistory
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case listSources:
		return listAnalyzedSources(ctx, db, out, jsonOutput)
	case id > 0:
		return showAnalysis(ctx, db, out, id, jsonOutput, markdownOutput)
	default:
		source := ""
		if len(args) > 0 {
			source = args[0]
		}
		return listHistory(ctx, db, out, source, jsonOutput)
	}
}

// listAnalyzedSources lists every file that has recorded runs.
func listAnalyzedSources(ctx context.Context, db *database.HistoryDB, out io.Writer, jsonOutput bool) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if jsonOutput {
		if sources == nil {
			sources = []string{}
		}
		return writeIndentedJSON(out, sources)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No analyzed files found in the database.")
		fmt.Fprintln(out, "\nUse 'proxyscope render <csv>' to analyze a file.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed files (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  • %s\n", source)
	}
	fmt.Fprintln(out, "\nUse 'proxyscope history <csv>' to see the runs of a file.")

	return nil
}

// listHistory lists recorded runs, newest first.
func listHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, source string, jsonOutput bool) error {
	runs, err := db.GetHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.AnalysisMetadata{}
		}
		return writeIndentedJSON(out, runs)
	}

	if len(runs) == 0 {
		if source != "" {
			fmt.Fprintf(out, "No history found for %s\n", source)
		} else {
			fmt.Fprintln(out, "No history found.")
		}
		return nil
	}

	title := "All runs"
	if source != "" {
		title = "Runs of " + source
	}
	fmt.Fprintf(out, "%s (%d):\n\n", title, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %10s  %10s  %-24s  %s\n", "ID", "Date", "Records", "High Risk", "Score Bins", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 96))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %10d  %10d  %-24s  %s\n",
			run.ID,
			run.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			run.RecordCount,
			run.HighRiskCount,
			formatScoreSummary(run.ScoreSummary),
			run.Source,
		)
	}

	fmt.Fprintln(out, "\nUse 'proxyscope history --id <id>' to print the report of a run.")
	return nil
}

// formatScoreSummary formats the score-bin counts, lowest bin first.
func formatScoreSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "N/A"
	}

	labels := make([]string, 0, len(summary))
	for label := range summary {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s:%d", label, summary[label])
	}
	return strings.Join(parts, " ")
}

// showAnalysis prints the report of one recorded run.
func showAnalysis(ctx context.Context, db *database.HistoryDB, out io.Writer, id int64, jsonOutput, markdownOutput bool) error {
	a, err := db.GetAnalysisByID(ctx, id)
	if errors.Is(err, database.ErrAnalysisNotFound) {
		return fmt.Errorf("no run with ID %d", id)
	}
	if err != nil {
		return err
	}

	_, err = newReportWriter(jsonOutput, markdownOutput, out).Write(a)
	return err
}

// writeIndentedJSON writes v as indented JSON.
func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
