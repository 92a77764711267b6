// Package report renders evaluation results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable terminal output, coloured per trust level
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid chart of levels
//   - PDFWriter: a printable table of results
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
