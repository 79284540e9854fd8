package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure CSVExporter implements the interface.
var _ driven.HistoryExporter = (*CSVExporter)(nil)

var csvHeader = []string{"Timestamp", "Question", "Answer", "Sources", "Documents"}

// CSVExporter writes one row per question.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Format returns domain.ExportFormatCSV.
func (e *CSVExporter) Format() domain.ExportFormat {
	return domain.ExportFormatCSV
}

// Export writes a header row and one row per record. Documents are the
// cited file names joined with "; ".
func (e *CSVExporter) Export(w io.Writer, records []domain.QARecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(domain.TimestampLayout),
			r.Question,
			r.Answer,
			strconv.Itoa(r.Sources()),
			strings.Join(r.Documents(), "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
