package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/proxyscope/internal/aggregate"
	"github.com/nao1215/proxyscope/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the analysis in Markdown format.
func (w *MarkdownWriter) Write(analysis *model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, analysis)
	if !analysis.Failed() {
		w.writeDistribution(md, analysis)
		w.writeRanking(md, "Top High-Risk Countries", "Country", analysis.TopCountries)
		w.writeRanking(md, "Top High-Risk ISPs", "ISP", analysis.TopISPs)
		w.writeGeographic(md, analysis)
		w.writeCharts(md, analysis)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs every analysis as its own Markdown document.
func (w *MarkdownWriter) WriteBatch(analyses []*model.Analysis) (int, error) {
	return writeEach(analyses, w.Write)
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, analysis *model.Analysis) {
	md.H1("Proxy Risk Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + analysis.Source + "`"},
			{"Analyzed", analysis.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Records", formatCount(analysis.RecordCount)},
			{"Dropped Rows", formatCount(analysis.DroppedCount)},
			{"Status", w.getStatusText(analysis)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on analysis state.
func (w *MarkdownWriter) getStatusText(analysis *model.Analysis) string {
	if analysis.Failed() {
		return "❌ Error - " + analysis.ErrorMessage
	}
	return "✅ Complete"
}

// riskEmoji returns the table marker for a risk level.
func riskEmoji(level model.RiskLevel) string {
	switch level {
	case model.RiskCritical:
		return "🔴"
	case model.RiskHigh:
		return "🟠"
	case model.RiskElevated:
		return "🟡"
	default:
		return "⚪"
	}
}

// writeDistribution writes the fraud-score distribution section.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, analysis *model.Analysis) {
	md.H2("Fraud Score Distribution")
	md.PlainText("")

	rows := make([][]string, 0, len(analysis.ScoreDistribution)+1)
	for _, bin := range analysis.ScoreDistribution {
		risk := binRisk(bin.Label)
		rows = append(rows, []string{
			bin.Label,
			riskEmoji(risk) + " " + risk.String(),
			formatCount(bin.Count),
		})
	}
	rows = append(rows, []string{"**Total**", "", "**" + formatCount(analysis.DistributionTotal()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Fraud Score", "Risk", "Proxies"},
		Rows:   rows,
	})
	md.PlainText("")

	if analysis.DistributionTotal() > 0 {
		w.writePieChart(md, analysis)
	}
	w.writeAlert(md, analysis)
}

// writePieChart writes a mermaid pie chart of the score bins.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, analysis *model.Analysis) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fraud Score Distribution"),
		piechart.WithShowData(true),
	)

	for _, bin := range analysis.ScoreDistribution {
		if bin.Count > 0 {
			chart.LabelAndIntValue(bin.Label, uint64(bin.Count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert for the highest populated risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, analysis *model.Analysis) {
	counts := make(map[model.RiskLevel]int)
	for _, bin := range analysis.ScoreDistribution {
		counts[binRisk(bin.Label)] += bin.Count
	}

	switch {
	case counts[model.RiskCritical] > 0:
		md.Cautionf(
			"%s proxies scored 90 or above. %s",
			formatCount(counts[model.RiskCritical]), model.RiskCritical.Recommendation(),
		)
	case counts[model.RiskHigh] > 0:
		md.Warningf(
			"%s proxies scored between 80 and 89. %s",
			formatCount(counts[model.RiskHigh]), model.RiskHigh.Recommendation(),
		)
	case counts[model.RiskElevated] > 0:
		md.Importantf(
			"%s proxies scored between 70 and 79. %s",
			formatCount(counts[model.RiskElevated]), model.RiskElevated.Recommendation(),
		)
	default:
		md.Tip("No proxies scored 70 or above.")
	}
	md.PlainText("")
}

// writeRanking writes a ranked table, highest count first.
func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, title, column string, counts []model.CategoryCount) {
	md.H2(title)
	md.PlainText("")

	if len(counts) == 0 {
		md.PlainTextf("No proxies with a fraud score above %.0f.", aggregate.HighRiskThreshold)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(counts))
	for i, c := range rankOrder(counts) {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), truncateString(c.Label, 50), formatCount(c.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", column, "Proxies"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeGeographic writes the geographic spread section.
func (w *MarkdownWriter) writeGeographic(md *markdown.Markdown, analysis *model.Analysis) {
	md.H2("Geographic Spread")
	md.PlainText("")

	if len(analysis.CountryTotals) == 0 {
		md.PlainText("No high-risk proxies located.")
		md.PlainText("")
		return
	}

	md.PlainTextf("%s high-risk proxies across %s countries.",
		formatCount(analysis.HighRiskTotal()), formatCount(len(analysis.CountryTotals)))
	md.PlainText("")
	if len(analysis.LeadingCountries) > 0 {
		md.PlainText("Leading countries:")
		md.PlainText("")
		md.BulletList(analysis.LeadingCountries...)
		md.PlainText("")
	}
}

// writeCharts writes the table of exported chart files.
func (w *MarkdownWriter) writeCharts(md *markdown.Markdown, analysis *model.Analysis) {
	rows := chartRows(analysis)
	if len(rows) == 0 {
		return
	}

	md.H2("Charts")
	md.PlainText("")
	for i := range rows {
		rows[i][1] = "`" + rows[i][1] + "`"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Chart", "File"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [proxyscope](https://github.com/nao1215/proxyscope)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
