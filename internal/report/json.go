package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/proxyscope/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analysis in JSON format.
func (w *JSONWriter) Write(analysis *model.Analysis) (int, error) {
	return w.writeJSON(analysis)
}

// WriteBatch outputs the analyses as a single JSON array.
func (w *JSONWriter) WriteBatch(analyses []*model.Analysis) (int, error) {
	return w.writeJSON(nonNil(analyses))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// nonNil drops nil entries, which a cancelled batch can leave behind.
func nonNil(analyses []*model.Analysis) []*model.Analysis {
	out := make([]*model.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// JSONReport wraps an analysis with the version of the tool that produced it.
type JSONReport struct {
	// Version is the proxyscope version that generated this report.
	Version string `json:"version"`

	// Analysis is the full analysis.
	Analysis *model.Analysis `json:"analysis"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(analysis *model.Analysis, version string) *JSONReport {
	return &JSONReport{
		Version:  version,
		Analysis: analysis,
	}
}

// FullJSONWriter outputs analyses with a metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the proxyscope version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the analysis wrapped with metadata.
func (w *FullJSONWriter) Write(analysis *model.Analysis) (int, error) {
	return w.writeJSON(NewJSONReport(analysis, w.version))
}

// WriteBatch outputs the wrapped analyses as a single JSON array.
func (w *FullJSONWriter) WriteBatch(analyses []*model.Analysis) (int, error) {
	list := nonNil(analyses)
	wrapped := make([]*JSONReport, len(list))
	for i, a := range list {
		wrapped[i] = NewJSONReport(a, w.version)
	}
	return w.writeJSON(wrapped)
}
