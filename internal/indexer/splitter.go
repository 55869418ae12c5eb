package indexer

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators are tried in order, from paragraph breaks down to single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", " ", ""}

// TextSplitter splits text recursively on a list of separators so that every
// chunk fits in ChunkSize characters, with up to ChunkOverlap characters
// repeated between neighbouring chunks. Separators stay attached to the start
// of the piece that follows them.
type TextSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewTextSplitter creates a TextSplitter using DefaultSeparators.
func NewTextSplitter(chunkSize, chunkOverlap int) *TextSplitter {
	return &TextSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// Split returns the chunks of text in order. Chunks are trimmed and never empty.
func (s *TextSplitter) Split(text string) []string {
	return s.split(text, s.Separators)
}

func (s *TextSplitter) split(text string, separators []string) []string {
	separator := ""
	var remaining []string
	if len(separators) > 0 {
		separator = separators[len(separators)-1]
	}
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if length(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge joins small pieces into chunks of at most ChunkSize characters,
// carrying a tail of up to ChunkOverlap characters into the next chunk.
// Pieces already carry their separators, so they are joined directly.
func (s *TextSplitter) merge(pieces []string) []string {
	var chunks, current []string
	total := 0

	for _, piece := range pieces {
		l := length(piece)
		if total+l > s.ChunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.ChunkOverlap || (total+l > s.ChunkSize && total > 0) {
				total -= length(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += l
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepingSeparator splits text before every occurrence of sep. An empty
// sep splits into single characters. Empty pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	var pieces []string
	start, pos := 0, 0
	for {
		i := strings.Index(text[pos:], sep)
		if i < 0 {
			break
		}
		at := pos + i
		if at > start {
			pieces = append(pieces, text[start:at])
		}
		start = at
		pos = at + len(sep)
	}
	if start < len(text) {
		pieces = append(pieces, text[start:])
	}
	return pieces
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
