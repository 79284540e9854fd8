// Package export writes question history as TXT, CSV or JSON.
package export

import (
	"fmt"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// filenameLayout is the timestamp layout used in default export file names.
const filenameLayout = "20060102_150405"

// DefaultFilename returns studymate_qa_log_YYYYMMDD_HHMMSS.<ext> for the time.
func DefaultFilename(format domain.ExportFormat, at time.Time) string {
	return fmt.Sprintf("studymate_qa_log_%s.%s", at.Format(filenameLayout), format)
}

// All returns one exporter per export format.
func All() []driven.HistoryExporter {
	return []driven.HistoryExporter{
		NewTextExporter(),
		NewCSVExporter(),
		NewJSONExporter(),
	}
}
