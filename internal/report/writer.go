package report

import (
	"io"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/proxyscope/internal/aggregate"
	"github.com/nao1215/proxyscope/internal/model"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
type Writer interface {
	// Write outputs the report of one analysis.
	// Returns the number of bytes written and any error encountered.
	Write(analysis *model.Analysis) (int, error)

	// WriteBatch outputs the reports of several analyses, in order.
	WriteBatch(analyses []*model.Analysis) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(analysis *model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(analysis)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the reports to all configured Writers.
func (m *MultiWriter) WriteBatch(analyses []*model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(analyses)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writeEach writes every analysis with write and sums the byte counts.
func writeEach(analyses []*model.Analysis, write func(*model.Analysis) (int, error)) (int, error) {
	var total int
	for _, a := range analyses {
		if a == nil {
			continue
		}
		n, err := write(a)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var printer = message.NewPrinter(language.English)

// formatCount formats n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// binRisk returns the risk level of a score bin label.
func binRisk(label string) model.RiskLevel {
	for _, b := range aggregate.ScoreBins {
		if b.Label == label {
			return model.RiskLevelOf(b.Low)
		}
	}
	return model.RiskLow
}

// rankOrder returns counts highest first. Aggregations present their
// results ascending for plotting; reports list them by rank.
func rankOrder(counts []model.CategoryCount) []model.CategoryCount {
	out := slices.Clone(counts)
	slices.Reverse(out)
	return out
}

// chartRows returns the exported charts in presentation order.
func chartRows(analysis *model.Analysis) [][]string {
	var rows [][]string
	for _, kind := range model.ChartKinds() {
		if path, ok := analysis.Charts[kind]; ok {
			rows = append(rows, []string{kind.String(), path})
		}
	}
	return rows
}

// status returns a short status text.
func status(analysis *model.Analysis) string {
	if analysis.Failed() {
		return "ERROR - " + analysis.ErrorMessage
	}
	return "Complete"
}
