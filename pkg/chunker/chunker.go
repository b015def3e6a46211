// Package chunker splits raw document text into bounded, overlapping chunks
// suitable for embedding and k-nearest-neighbor retrieval.
//
// The splitter works recursively over a priority-ordered separator list:
// it prefers paragraph breaks, then line breaks, then spaces, and finally
// falls back to character-level splitting, merging pieces back together so
// each chunk is as close to the maximum length as possible without exceeding
// it. Adjacent chunks share trailing content up to the configured overlap so
// a boundary falling mid-sentence still preserves nearby context in at least
// one chunk.
//
// Splitting is a pure function of its inputs: same text and parameters
// always produce the same chunk sequence. Lengths are measured in bytes;
// character-level fallback splits on UTF-8 rune boundaries so multi-byte
// runes are never torn apart.
package chunker

import "strings"

// Chunk is a contiguous piece of a source document, the atomic retrieval unit.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Source identifies the document this chunk came from (typically the
	// file name). Inherited unchanged by every chunk of a document.
	Source string

	// Seq is the zero-based position of the chunk within the document.
	Seq int
}

const (
	// DefaultMaxLength holds a complete policy clause while leaving room for
	// several chunks in the generation context window.
	DefaultMaxLength = 1000

	// DefaultOverlap prevents a clause from being truncated at a chunk
	// boundary.
	DefaultOverlap = 200
)

// DefaultSeparators is the priority-ordered separator list: paragraph break,
// line break, space, and finally the empty string meaning character-level
// splitting.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", " ", ""}
}

// Chunker splits text into overlapping chunks.
type Chunker struct {
	maxLength  int
	overlap    int
	separators []string
}

// Config holds chunker parameters. Zero values fall back to the defaults.
type Config struct {
	// MaxLength is the maximum chunk length in bytes.
	MaxLength int

	// Overlap is the number of bytes adjacent chunks share. Must be smaller
	// than MaxLength.
	Overlap int

	// Separators is the priority-ordered separator list. The final entry
	// should be "" so arbitrarily long unbroken text can still be split.
	Separators []string
}

// New creates a Chunker from the given config.
func New(c Config) *Chunker {
	maxLength := c.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	overlap := c.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxLength {
		overlap = DefaultOverlap
	}

	separators := c.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators()
	}

	return &Chunker{
		maxLength:  maxLength,
		overlap:    overlap,
		separators: separators,
	}
}

// Split divides text into chunks tagged with source and sequence position.
// A text shorter than the maximum length yields exactly one chunk; empty
// text yields none.
func (c *Chunker) Split(text, source string) []Chunk {
	pieces := c.splitText(text, c.separators)

	chunks := make([]Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, Chunk{
			Text:   p,
			Source: source,
			Seq:    len(chunks),
		})
	}
	return chunks
}

// splitText recursively splits text on the first applicable separator, then
// merges the resulting pieces back up toward maxLength with overlap.
func (c *Chunker) splitText(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Pick the first separator present in the text; the empty string always
	// applies. Remaining lower-priority separators handle oversize pieces.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" {
			separator = ""
			remaining = nil
			break
		}
		if strings.Contains(text, s) {
			separator = s
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	var final []string
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			final = append(final, c.mergeSplits(pending)...)
			pending = nil
		}
	}

	for _, s := range splits {
		if len(s) <= c.maxLength {
			pending = append(pending, s)
			continue
		}

		// Oversize piece: emit what we have, then split it further with the
		// lower-priority separators.
		flush()
		if len(remaining) == 0 && separator == "" {
			// Nothing left to split on; should not happen since "" splits
			// into runes, but keep the piece rather than lose content.
			final = append(final, s)
			continue
		}
		next := remaining
		if len(next) == 0 {
			next = []string{""}
		}
		final = append(final, c.splitText(s, next)...)
	}
	flush()

	return final
}

// mergeSplits packs consecutive pieces into chunks no longer than maxLength,
// carrying the trailing pieces up to the overlap size into the next chunk.
// Separators were kept attached to the preceding piece, so joining is plain
// concatenation.
func (c *Chunker) mergeSplits(splits []string) []string {
	var docs []string
	var current []string
	total := 0

	emit := func() {
		doc := strings.TrimSpace(strings.Join(current, ""))
		if doc != "" {
			docs = append(docs, doc)
		}
	}

	for _, s := range splits {
		l := len(s)
		if total+l > c.maxLength && len(current) > 0 {
			emit()
			// Drop pieces from the front until the retained tail fits the
			// overlap budget and the incoming piece fits the max length.
			for total > c.overlap || (total+l > c.maxLength && total > 0) {
				total -= len(current[0])
				current = current[1:]
			}
		}
		current = append(current, s)
		total += l
	}
	if len(current) > 0 {
		emit()
	}

	return docs
}

// splitKeepingSeparator splits text on separator, keeping the separator
// attached to the end of the preceding piece so no content is lost. An empty
// separator splits into individual runes.
func splitKeepingSeparator(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.SplitAfter(text, separator)
	}

	splits := raw[:0]
	for _, s := range raw {
		if s != "" {
			splits = append(splits, s)
		}
	}
	return splits
}
