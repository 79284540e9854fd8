// Package pdf loads PDF files as one text unit per page.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/loaders"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles .pdf files.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Format returns domain.FormatPDF.
func (l *Loader) Format() domain.Format {
	return domain.FormatPDF
}

// Load extracts the text of every page in page order. Positions are 1-based
// page numbers. Pages without text produce empty units; a document with no
// text on any page fails.
func (l *Loader) Load(ctx context.Context, name string, data []byte) (units []domain.RawUnit, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = &domain.LoadError{SourceID: name, Err: fmt.Errorf("parse pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &domain.LoadError{SourceID: name, Err: fmt.Errorf("open pdf: %w", err)}
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return nil, &domain.LoadError{SourceID: name, Err: domain.ErrNoExtractableText}
	}

	units = make([]domain.RawUnit, 0, pageCount)
	chars := 0
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &domain.LoadError{SourceID: name, Err: err}
		}

		unit := domain.RawUnit{Position: i}
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				logger.Warn("pdf: %s page %d: %v", name, i, err)
			} else {
				unit.Text = loaders.SanitizeText(text)
			}
		}
		chars += len(unit.Text)
		units = append(units, unit)
	}

	if chars == 0 {
		return nil, &domain.LoadError{SourceID: name, Err: domain.ErrNoExtractableText}
	}

	logger.Debug("pdf: %s -> %d pages, %d bytes of text", name, pageCount, chars)
	return units, nil
}
