// Package plaintext loads UTF-8 text files as a single unit.
package plaintext

import (
	"bytes"
	"context"
	"errors"
	"unicode/utf8"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/loaders"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// errInvalidUTF8 is wrapped in the LoadError for undecodable files.
var errInvalidUTF8 = errors.New("file is not valid UTF-8 text")

// Loader handles .txt files.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Format returns domain.FormatText.
func (l *Loader) Format() domain.Format {
	return domain.FormatText
}

// Load returns one unit at position 0 holding the whole file.
func (l *Loader) Load(ctx context.Context, name string, data []byte) ([]domain.RawUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.LoadError{SourceID: name, Err: err}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, &domain.LoadError{SourceID: name, Err: errInvalidUTF8}
	}

	return []domain.RawUnit{{Text: loaders.SanitizeText(string(data)), Position: 0}}, nil
}
