// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with tables, alerts and a
//     mermaid pie chart of the fraud-score bins
//
// Report writing is kept apart from the Analysis data structure (in the
// model package), so new formats can be added without touching the
// aggregation code.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
