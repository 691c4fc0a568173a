package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/proxyscope/internal/aggregate"
	"github.com/nao1215/proxyscope/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// It uses plain ASCII formatting so the output can be piped to files.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose adds the per-country totals and recommendations.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analysis in human-readable format.
func (w *SimpleWriter) Write(analysis *model.Analysis) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, analysis)
	if !analysis.Failed() || w.showEmpty {
		w.writeDistribution(&sb, analysis)
		w.writeRanking(&sb, fmt.Sprintf("TOP HIGH-RISK COUNTRIES (FRAUD SCORE > %.0f)", aggregate.HighRiskThreshold), analysis.TopCountries)
		w.writeRanking(&sb, fmt.Sprintf("TOP HIGH-RISK ISPs (FRAUD SCORE > %.0f)", aggregate.HighRiskThreshold), analysis.TopISPs)
		w.writeGeographic(&sb, analysis)
		w.writeCharts(&sb, analysis)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs every analysis, one report after another.
func (w *SimpleWriter) WriteBatch(analyses []*model.Analysis) (int, error) {
	return writeEach(analyses, w.Write)
}

// section writes a section title between rules.
func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, analysis *model.Analysis) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       PROXYSCOPE RISK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:         %s\n", analysis.Source)
	fmt.Fprintf(sb, "Analyzed:       %s\n", analysis.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Records:        %s (%s dropped)\n", formatCount(analysis.RecordCount), formatCount(analysis.DroppedCount))
	fmt.Fprintf(sb, "Status:         %s\n", status(analysis))
	sb.WriteString("\n")
}

// writeDistribution writes the fraud-score bins.
func (w *SimpleWriter) writeDistribution(sb *strings.Builder, analysis *model.Analysis) {
	section(sb, fmt.Sprintf("FRAUD SCORE DISTRIBUTION (FRAUD SCORE >= %.0f)", aggregate.DistributionFloor))

	for _, bin := range analysis.ScoreDistribution {
		risk := binRisk(bin.Label)
		fmt.Fprintf(sb, "  [%-3s] %-7s %-9s %10s\n", riskIndicator(risk), bin.Label, risk, formatCount(bin.Count))
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL: %s proxies\n", formatCount(analysis.DistributionTotal()))
	sb.WriteString("\n")

	if w.verbose {
		for _, bin := range analysis.ScoreDistribution {
			if bin.Count == 0 {
				continue
			}
			risk := binRisk(bin.Label)
			fmt.Fprintf(sb, "  %s: %s\n", risk, risk.Recommendation())
		}
		sb.WriteString("\n")
	}
}

// writeRanking writes a ranked list, highest count first.
func (w *SimpleWriter) writeRanking(sb *strings.Builder, title string, counts []model.CategoryCount) {
	if len(counts) == 0 && !w.showEmpty {
		return
	}
	section(sb, title)

	if len(counts) == 0 {
		sb.WriteString("  No high-risk proxies\n\n")
		return
	}
	for i, c := range rankOrder(counts) {
		fmt.Fprintf(sb, "  %2d. %-40s %10s\n", i+1, c.Label, formatCount(c.Count))
	}
	sb.WriteString("\n")
}

// writeGeographic writes the geographic spread summary.
func (w *SimpleWriter) writeGeographic(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.CountryTotals) == 0 && !w.showEmpty {
		return
	}
	section(sb, "GEOGRAPHIC SPREAD")

	fmt.Fprintf(sb, "  %s high-risk proxies across %s countries\n",
		formatCount(analysis.HighRiskTotal()), formatCount(len(analysis.CountryTotals)))
	if w.verbose {
		sb.WriteString("\n")
		for _, c := range analysis.SortedCountryTotals() {
			fmt.Fprintf(sb, "  %-40s %10s\n", c.Label, formatCount(c.Count))
		}
	}
	sb.WriteString("\n")
}

// writeCharts lists the exported chart files.
func (w *SimpleWriter) writeCharts(sb *strings.Builder, analysis *model.Analysis) {
	rows := chartRows(analysis)
	if len(rows) == 0 && !w.showEmpty {
		return
	}
	section(sb, "CHARTS")

	if len(rows) == 0 {
		sb.WriteString("  No charts exported\n")
	}
	for _, row := range rows {
		fmt.Fprintf(sb, "  [+] %-26s %s\n", row[0], row[1])
	}
	sb.WriteString("\n")
}

// riskIndicator returns a visual indicator for the risk level.
func riskIndicator(level model.RiskLevel) string {
	switch level {
	case model.RiskCritical:
		return "!!!"
	case model.RiskHigh:
		return "!!"
	case model.RiskElevated:
		return "!"
	case model.RiskLow:
		return "-"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by proxyscope\n")
	sb.WriteString("https://github.com/nao1215/proxyscope\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
