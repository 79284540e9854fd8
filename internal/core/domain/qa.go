package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the display and export format for QARecord timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// SnippetLength is the number of characters shown for each reference.
const SnippetLength = 500

// Answer is the result of answering one question.
type Answer struct {
	// Text is the model's answer.
	Text string

	// Evidence is the passages placed in the prompt, in retrieval order.
	Evidence []ScoredPassage

	// Model is the generating model name.
	Model string
}

// QARecord is one answered question. Records are never mutated after
// creation and own a copy of their evidence, so they remain valid after
// the knowledge base is rebuilt.
type QARecord struct {
	ID        string
	Timestamp time.Time
	Question  string
	Answer    string
	Evidence  []Passage
	Model     string
}

// NewQARecord creates a record for an answered question, copying the evidence.
func NewQARecord(question string, ans Answer, at time.Time) QARecord {
	evidence := make([]Passage, len(ans.Evidence))
	for i, sp := range ans.Evidence {
		evidence[i] = sp.Passage
	}
	return QARecord{
		ID:        uuid.New().String(),
		Timestamp: at,
		Question:  question,
		Answer:    ans.Text,
		Evidence:  evidence,
		Model:     ans.Model,
	}
}

// Sources returns the number of evidence passages.
func (r QARecord) Sources() int {
	return len(r.Evidence)
}

// Documents returns the distinct source files cited, in first-seen order.
func (r QARecord) Documents() []string {
	seen := make(map[string]bool, len(r.Evidence))
	var docs []string
	for _, p := range r.Evidence {
		if !seen[p.SourceID] {
			seen[p.SourceID] = true
			docs = append(docs, p.SourceID)
		}
	}
	return docs
}

// ExportFormat identifies a history export encoding.
type ExportFormat string

// Available export formats.
const (
	ExportFormatText ExportFormat = "txt"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

// IsValid returns true if the export format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatText, ExportFormatCSV, ExportFormatJSON:
		return true
	default:
		return false
	}
}

// AllExportFormats returns every export format.
func AllExportFormats() []ExportFormat {
	return []ExportFormat{ExportFormatText, ExportFormatCSV, ExportFormatJSON}
}
