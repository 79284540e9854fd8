package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure JSONExporter implements the interface.
var _ driven.HistoryExporter = (*JSONExporter)(nil)

// jsonRecord is the exported shape of a QARecord.
type jsonRecord struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	Model     string         `json:"model,omitempty"`
	Sources   int            `json:"sources"`
	Evidence  []jsonEvidence `json:"evidence"`
}

type jsonEvidence struct {
	Source     string `json:"source"`
	Position   int    `json:"position"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// JSONExporter writes the full records, evidence included.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns domain.ExportFormatJSON.
func (e *JSONExporter) Format() domain.ExportFormat {
	return domain.ExportFormatJSON
}

// Export writes the records as an indented JSON array.
func (e *JSONExporter) Export(w io.Writer, records []domain.QARecord) error {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		evidence := make([]jsonEvidence, len(r.Evidence))
		for j, p := range r.Evidence {
			evidence[j] = jsonEvidence{
				Source:     p.SourceID,
				Position:   p.Position,
				ChunkIndex: p.ChunkIndex,
				Text:       p.Text,
			}
		}
		out[i] = jsonRecord{
			ID:        r.ID,
			Timestamp: r.Timestamp.Format(domain.TimestampLayout),
			Question:  r.Question,
			Answer:    r.Answer,
			Model:     r.Model,
			Sources:   r.Sources(),
			Evidence:  evidence,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
