// Package chunker splits loaded documents into overlapping passages.
//
// Splitting works on characters (runes) of whitespace-normalised text and
// prefers to cut at a paragraph break, then a sentence end, then a word
// boundary, before falling back to a hard cut. Consecutive passages of a
// unit always share exactly the configured overlap, so dropping each
// overlap and concatenating the passages reproduces the normalised text.
package chunker

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// pageSeparator joins units when pages are merged.
const pageSeparator = "\n\n"

var blankRun = regexp.MustCompile(`\n{3,}`)

// Processor splits units into fixed-size overlapping passages.
type Processor struct {
	chunkSize  int
	overlap    int
	mergePages bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMergePages splits all units of a document as one stream.
func WithMergePages(merge bool) Option {
	return func(p *Processor) {
		p.mergePages = merge
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// FromSettings creates a processor from chunking settings.
func FromSettings(s domain.ChunkingSettings) *Processor {
	return New(WithChunkSize(s.Size), WithOverlap(s.Overlap), WithMergePages(s.MergePages))
}

// ChunkSize returns the effective chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the effective overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Chunk splits every document into passages. Chunk indexes run over the
// whole set in document then unit order.
func (p *Processor) Chunk(docs []domain.RawDocument) []domain.Passage {
	var passages []domain.Passage
	for _, doc := range docs {
		before := len(passages)
		if p.mergePages && len(doc.Units) > 1 {
			passages = p.chunkMerged(doc, passages)
		} else {
			for _, unit := range doc.Units {
				for _, text := range p.Split(unit.Text) {
					passages = append(passages, domain.Passage{
						Text:       text,
						SourceID:   doc.SourceID,
						Position:   unit.Position,
						ChunkIndex: len(passages),
					})
				}
			}
		}
		logger.Debug("chunker: %s -> %d passages", doc.SourceID, len(passages)-before)
	}
	return passages
}

// chunkMerged joins the units of doc and attributes each passage to the
// unit contributing most of its characters.
func (p *Processor) chunkMerged(doc domain.RawDocument, passages []domain.Passage) []domain.Passage {
	type span struct {
		start, end int
		position   int
	}

	var b strings.Builder
	var spans []span
	offset := 0
	sepLen := len([]rune(pageSeparator))
	for _, unit := range doc.Units {
		text := Normalize(unit.Text)
		if text == "" {
			continue
		}
		if len(spans) > 0 {
			b.WriteString(pageSeparator)
			offset += sepLen
		}
		n := len([]rune(text))
		spans = append(spans, span{start: offset, end: offset + n, position: unit.Position})
		b.WriteString(text)
		offset += n
	}

	for _, r := range p.splitRunes([]rune(b.String())) {
		best, bestChars := 0, -1
		for i, s := range spans {
			chars := min(r.end, s.end) - max(r.start, s.start)
			if chars > bestChars {
				best, bestChars = i, chars
			}
		}
		passages = append(passages, domain.Passage{
			Text:       r.text,
			SourceID:   doc.SourceID,
			Position:   spans[best].position,
			ChunkIndex: len(passages),
		})
	}
	return passages
}

// Split normalises text and splits it into passages.
func (p *Processor) Split(text string) []string {
	pieces := p.splitRunes([]rune(Normalize(text)))
	out := make([]string, len(pieces))
	for i, piece := range pieces {
		out[i] = piece.text
	}
	return out
}

type piece struct {
	text       string
	start, end int
}

func (p *Processor) splitRunes(r []rune) []piece {
	n := len(r)
	if n == 0 {
		return nil
	}
	if n <= p.chunkSize {
		return []piece{{text: string(r), start: 0, end: n}}
	}

	// Every cut leaves at least overlap+1 new characters so start advances.
	minLen := max(p.overlap+1, p.chunkSize/2)

	pieces := make([]piece, 0, (n-p.overlap)/(p.chunkSize-p.overlap)+1)
	start := 0
	for {
		if n-start <= p.chunkSize {
			pieces = append(pieces, piece{text: string(r[start:]), start: start, end: n})
			return pieces
		}
		limit := start + p.chunkSize
		end := cutPoint(r, start+minLen, limit)
		pieces = append(pieces, piece{text: string(r[start:end]), start: start, end: end})
		start = end - p.overlap
	}
}

// cutPoint returns the end of a passage in [lo, hi]. The cut lands before
// whitespace: the latest paragraph break, else the latest sentence end,
// else the latest word gap, else hi. hi is always < len(r).
func cutPoint(r []rune, lo, hi int) int {
	sentence, word := -1, -1
	for i := hi; i >= lo; i-- {
		if !unicode.IsSpace(r[i]) {
			continue
		}
		if r[i] == '\n' && i+1 < len(r) && r[i+1] == '\n' {
			return i
		}
		if sentence < 0 && isSentenceEnd(r[i-1]) {
			sentence = i
		}
		if word < 0 {
			word = i
		}
	}
	switch {
	case sentence >= 0:
		return sentence
	case word >= 0:
		return word
	default:
		return hi
	}
}

func isSentenceEnd(c rune) bool {
	return c == '.' || c == '!' || c == '?'
}

// Normalize converts line endings to LF, strips trailing spaces from each
// line, collapses runs of blank lines and trims the result.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}
	text = strings.Join(lines, "\n")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
