package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure TextExporter implements the interface.
var _ driven.HistoryExporter = (*TextExporter)(nil)

var separator = strings.Repeat("-", 40)

// TextExporter writes a plain text log, one block per question.
type TextExporter struct{}

// NewTextExporter creates a text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Format returns domain.ExportFormatText.
func (e *TextExporter) Format() domain.ExportFormat {
	return domain.ExportFormatText
}

// Export writes the records numbered from Q1 in the order given.
func (e *TextExporter) Export(w io.Writer, records []domain.QARecord) error {
	bw := bufio.NewWriter(w)
	for i, r := range records {
		fmt.Fprintf(bw, "Q%d: %s\n", i+1, r.Question)
		fmt.Fprintf(bw, "Asked: %s\n", r.Timestamp.Format(domain.TimestampLayout))
		fmt.Fprintf(bw, "Answer: %s\n", r.Answer)
		fmt.Fprintf(bw, "Sources: %d references\n", r.Sources())
		fmt.Fprintln(bw, separator)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text log: %w", err)
	}
	return nil
}
