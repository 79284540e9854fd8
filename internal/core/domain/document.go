package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies how a file is decoded into units.
type Format string

// Supported formats.
const (
	// FormatPDF yields one unit per page.
	FormatPDF Format = "pdf"

	// FormatText yields one unit for the whole file.
	FormatText Format = "text"
)

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// FormatForName maps a file name to its format by extension,
// case-insensitively. The set of extensions is closed.
func FormatForName(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".txt":
		return FormatText, nil
	default:
		return "", &UnsupportedFormatError{SourceID: name, Extension: ext}
	}
}

// SupportedExtensions returns the extensions accepted by FormatForName.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

// SourceFile is a file submitted for ingestion. Either Data holds the
// content or Path points at it on disk.
type SourceFile struct {
	// Name identifies the file in passages and references.
	Name string

	// Path is read when Data is nil.
	Path string

	// Data is the file content.
	Data []byte
}
