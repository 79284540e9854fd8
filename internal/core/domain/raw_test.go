package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawDocument_Units(t *testing.T) {
	doc := RawDocument{
		SourceID: "lecture.pdf",
		Format:   FormatPDF,
		Units: []RawUnit{
			{Text: "Page one.", Position: 1},
			{Text: "Page two.", Position: 2},
		},
	}

	assert.Equal(t, "lecture.pdf", doc.SourceID)
	assert.Equal(t, FormatPDF, doc.Format)
	assert.Len(t, doc.Units, 2)
	assert.Equal(t, 2, doc.Units[1].Position)
}

func TestRawDocument_TotalChars_CountsRunes(t *testing.T) {
	tests := []struct {
		name  string
		units []RawUnit
		want  int
	}{
		{name: "no units", want: 0},
		{name: "empty unit", units: []RawUnit{{Text: ""}}, want: 0},
		{name: "ascii", units: []RawUnit{{Text: "cats"}}, want: 4},
		{name: "multibyte", units: []RawUnit{{Text: "café"}, {Text: "naïve"}}, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := RawDocument{SourceID: "notes.txt", Format: FormatText, Units: tt.units}
			assert.Equal(t, tt.want, doc.TotalChars())
		})
	}
}

func TestFileFailure_KeepsTypedError(t *testing.T) {
	failure := FileFailure{
		SourceID: "broken.pdf",
		Err:      &LoadError{SourceID: "broken.pdf", Err: errors.New("malformed xref")},
	}

	var loadErr *LoadError
	assert.True(t, errors.As(failure.Err, &loadErr))
	assert.Equal(t, "broken.pdf", loadErr.SourceID)
	assert.True(t, errors.Is(failure.Err, ErrLoad))
}
