package indexer

import "unicode/utf8"

// Quality thresholds for chunks kept in the index.
const (
	MinChunkLength = 100
	MinAlnumRatio  = 0.5
	MaxDigitRatio  = 0.4
)

// IsQualityChunk reports whether text is long enough and mostly prose.
// Tables of figures and punctuation debris are rejected.
func IsQualityChunk(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < MinChunkLength {
		return false
	}

	var alnum, digits int
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits++
			alnum++
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			alnum++
		}
	}

	if float64(alnum)/float64(n) < MinAlnumRatio {
		return false
	}
	return float64(digits)/float64(n) <= MaxDigitRatio
}

// FilterQualityChunks keeps the chunks that pass IsQualityChunk, in order.
func FilterQualityChunks(chunks []Chunk) []Chunk {
	kept := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if IsQualityChunk(c.Text) {
			kept = append(kept, c)
		}
	}
	return kept
}
