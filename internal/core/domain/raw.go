package domain

// RawUnit is one extracted text unit of a file: a page of a PDF or the
// whole body of a text file.
type RawUnit struct {
	// Text is the extracted text.
	Text string

	// Position is the 1-based page number for PDFs and 0 for text files.
	Position int
}

// RawDocument is a loaded file before chunking. It is immutable once loaded.
type RawDocument struct {
	// SourceID is the file name the document was loaded from.
	SourceID string

	// Format is the loader that produced the units.
	Format Format

	// Units are the extracted units in file order.
	Units []RawUnit
}

// TotalChars returns the number of characters across all units.
func (d RawDocument) TotalChars() int {
	n := 0
	for _, u := range d.Units {
		n += len([]rune(u.Text))
	}
	return n
}

// FileFailure records a file that could not be loaded.
type FileFailure struct {
	// SourceID is the file name.
	SourceID string

	// Err is the load error, usually *LoadError or *UnsupportedFormatError.
	Err error
}
