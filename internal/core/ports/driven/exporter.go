package driven

import (
	"io"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// HistoryExporter writes question history in one export format.
type HistoryExporter interface {
	// Format returns the export format produced.
	Format() domain.ExportFormat

	// Export writes the records in the order given.
	Export(w io.Writer, records []domain.QARecord) error
}
