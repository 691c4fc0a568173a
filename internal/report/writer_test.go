package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/proxyscope/internal/model"
)

// createTestAnalysis creates an analysis with sample aggregates for testing.
func createTestAnalysis() *model.Analysis {
	a := model.NewAnalysis(nil)
	a.Source = "PROXYSCOPEW.csv"
	a.GeneratedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.RecordCount = 12345
	a.DroppedCount = 2
	a.ScoreDistribution = []model.CategoryCount{
		{Label: "70-79", Count: 4},
		{Label: "80-89", Count: 3},
		{Label: "90-100", Count: 2},
	}
	a.TopCountries = []model.CategoryCount{
		{Label: "Germany", Count: 1},
		{Label: "Russia", Count: 2},
		{Label: "United States", Count: 5},
	}
	a.LeadingCountries = []string{"United States", "Russia", "Germany"}
	a.TopISPs = []model.CategoryCount{
		{Label: "Hetzner Online GmbH", Count: 1},
		{Label: "DigitalOcean LLC", Count: 3},
	}
	a.CountryTotals = map[string]int{"United States": 5, "Russia": 2, "Germany": 1}
	a.AddChart(model.ChartScore, "out/safe_report_1_fraud_score_distribution.png")
	a.AddChart(model.ChartGeo, "out/geographic_heatmap.png")
	return a
}

// createFailedAnalysis creates an analysis whose load step failed.
func createFailedAnalysis() *model.Analysis {
	a := model.NewAnalysis(nil)
	a.Source = "missing.csv"
	a.Error = errors.New("file not found")
	a.ErrorMessage = a.Error.Error()
	return a
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"PROXYSCOPE RISK REPORT", "PROXYSCOPEW.csv", "12,345 (2 dropped)", "Complete"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes score distribution with risk levels", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "FRAUD SCORE DISTRIBUTION (FRAUD SCORE >= 70)") {
			t.Error("expected output to contain distribution section")
		}
		if !strings.Contains(output, "CRITICAL") || !strings.Contains(output, "ELEVATED") {
			t.Error("expected output to contain risk levels")
		}
		if !strings.Contains(output, "TOTAL: 9 proxies") {
			t.Error("expected distribution total of 9")
		}
	})

	t.Run("lists rankings highest first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		us := strings.Index(output, "1. United States")
		de := strings.Index(output, "3. Germany")
		if us < 0 || de < 0 || us > de {
			t.Errorf("expected United States ranked before Germany, got:\n%s", output)
		}
		if !strings.Contains(output, "1. DigitalOcean LLC") {
			t.Error("expected DigitalOcean LLC ranked first among ISPs")
		}
	})

	t.Run("lists exported charts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "geographic_heatmap.png") {
			t.Error("expected output to list the geo chart")
		}
		if strings.Contains(output, "safe_report_3_isp_distribution.png") {
			t.Error("did not expect an unexported chart")
		}
	})

	t.Run("verbose shows country totals and recommendations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, model.RiskCritical.Recommendation()) {
			t.Error("expected critical recommendation in verbose output")
		}
		if !strings.Contains(output, "8 high-risk proxies across 3 countries") {
			t.Error("expected geographic summary")
		}
	})

	t.Run("failed analysis hides sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createFailedAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ERROR - file not found") {
			t.Error("expected error status")
		}
		if strings.Contains(output, "FRAUD SCORE DISTRIBUTION") {
			t.Error("did not expect distribution for failed analysis")
		}
	})

	t.Run("show empty prints empty rankings", func(t *testing.T) {
		t.Parallel()

		a := createTestAnalysis()
		a.TopISPs = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No high-risk proxies") {
			t.Error("expected empty ranking placeholder")
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestAnalysis())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.Analysis
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Source != "PROXYSCOPEW.csv" {
			t.Errorf("expected source PROXYSCOPEW.csv, got %s", got.Source)
		}
		if got.CountryTotals["United States"] != 5 {
			t.Errorf("expected 5 for United States, got %d", got.CountryTotals["United States"])
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single-line JSON")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"source\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("batch writes an array and skips nil", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		analyses := []*model.Analysis{createTestAnalysis(), nil, createFailedAnalysis()}
		if _, err := NewJSONWriter(&buf).WriteBatch(analyses); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []model.Analysis
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(got))
		}
		if got[1].ErrorMessage != "file not found" {
			t.Errorf("expected error message, got %q", got[1].ErrorMessage)
		}
	})
}

// TestFullJSONWriter tests the versioned JSON writer.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(createTestAnalysis()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got JSONReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Version != "v1.2.3" {
		t.Errorf("expected version v1.2.3, got %s", got.Version)
	}
	if got.Analysis == nil || got.Analysis.RecordCount != 12345 {
		t.Error("expected wrapped analysis")
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Proxy Risk Report",
			"## Fraud Score Distribution",
			"## Top High-Risk Countries",
			"## Top High-Risk ISPs",
			"## Geographic Spread",
			"## Charts",
			"```mermaid",
			"[!CAUTION]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("warns when only high bin is populated", func(t *testing.T) {
		t.Parallel()

		a := createTestAnalysis()
		a.ScoreDistribution[2].Count = 0

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected warning alert")
		}
	})

	t.Run("failed analysis shows error status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createFailedAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Error - file not found") {
			t.Error("expected error status")
		}
		if strings.Contains(output, "## Fraud Score Distribution") {
			t.Error("did not expect distribution for failed analysis")
		}
	})
}

// TestMultiWriter tests writing to several writers at once.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.WriteBatch([]*model.Analysis{createTestAnalysis()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestTruncateString tests string truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

// TestRankOrder tests that rankings are reversed without mutating input.
func TestRankOrder(t *testing.T) {
	t.Parallel()

	in := []model.CategoryCount{{Label: "a", Count: 1}, {Label: "b", Count: 2}}
	got := rankOrder(in)
	if got[0].Label != "b" || in[0].Label != "a" {
		t.Errorf("unexpected rank order %v (input %v)", got, in)
	}
}
