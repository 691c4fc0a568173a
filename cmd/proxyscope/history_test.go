package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/proxyscope/internal/database"
	"github.com/nao1215/proxyscope/internal/model"
)

// TestHistory tests the history command against runs recorded by render.
func TestHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := filepath.Join(dir, "db")
	csvPath := writeCSV(t, dir, "PROXYSCOPEW.csv")
	cfgPath := emptyConfig(t)

	for range 2 {
		if _, err := execute(t, "render", "-d", dir, "--db-dir", dbDir, "-c", cfgPath, csvPath); err != nil {
			t.Fatalf("render failed: %v", err)
		}
	}

	t.Run("lists sources", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "history", "--db-dir", dbDir, "-L")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Analyzed files (1)") || !strings.Contains(output, csvPath) {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("lists runs of a source as JSON", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "history", "--db-dir", dbDir, "-j", csvPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []database.AnalysisMetadata
		if err := json.Unmarshal([]byte(output), &runs); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].HighRiskCount != 3 || runs[0].ScoreSummary["90-100"] != 1 {
			t.Errorf("unexpected run %+v", runs[0])
		}
	})

	t.Run("lists all runs as text", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "history", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "All runs (2)") || !strings.Contains(output, "70-79:2 80-89:1 90-100:1") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("prints one run as markdown", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "history", "--db-dir", dbDir, "--id", "1", "-m")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "# Proxy Risk Report") {
			t.Errorf("expected markdown report:\n%s", output)
		}
	})

	t.Run("prints one run as JSON", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "history", "--db-dir", dbDir, "--id", "2", "-j")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got struct {
			Analysis model.Analysis `json:"analysis"`
		}
		if err := json.Unmarshal([]byte(output), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got.Analysis.Charts) != 4 {
			t.Errorf("expected 4 charts recorded, got %v", got.Analysis.Charts)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "history", "--db-dir", dbDir, "--id", "99"); err == nil {
			t.Error("expected error for unknown id")
		}
	})
}

// TestHistoryWithoutDatabase tests that history does not create a database.
func TestHistoryWithoutDatabase(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "history", "--db-dir", filepath.Join(t.TempDir(), "none"))
	if !errors.Is(err, errNoHistory) {
		t.Errorf("expected errNoHistory, got %v", err)
	}
}

func TestFormatScoreSummary(t *testing.T) {
	t.Parallel()

	if got := formatScoreSummary(nil); got != "N/A" {
		t.Errorf("expected N/A, got %q", got)
	}
	got := formatScoreSummary(map[string]int{"90-100": 3, "70-79": 1, "80-89": 2})
	if got != "70-79:1 80-89:2 90-100:3" {
		t.Errorf("unexpected summary %q", got)
	}
}
