package indexer

import (
	"math"
	"sort"
)

// TokensPerRune approximates tokens from character counts (about 4 characters per token).
const TokensPerRune = 4.0

// DocumentStats reports what indexing one document did.
type DocumentStats struct {
	Skipped        bool
	ChunksCreated  int
	ChunksFiltered int
	ChunksEmbedded int
}

// Stats summarizes an indexing run.
type Stats struct {
	DocsProcessed  int `json:"docs_processed"`
	DocsSkipped    int `json:"docs_skipped"`
	DocsFailed     int `json:"docs_failed"`
	ChunksCreated  int `json:"chunks_created"`
	ChunksFiltered int `json:"chunks_filtered"`
	ChunksEmbedded int `json:"chunks_embedded"`
}

// Add folds a successfully indexed document's result into s.
func (s *Stats) Add(d DocumentStats) {
	if d.Skipped {
		s.DocsSkipped++
		return
	}
	s.DocsProcessed++
	s.ChunksCreated += d.ChunksCreated
	s.ChunksFiltered += d.ChunksFiltered
	s.ChunksEmbedded += d.ChunksEmbedded
}

// ChunkTokenStats describes the estimated token sizes of a set of chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// EstimateTokens approximates the token count of text, at least 1.
func EstimateTokens(text string) int {
	tokens := int(math.Round(float64(length(text)) / TokensPerRune))
	if tokens < 1 {
		return 1
	}
	return tokens
}

// TokenStats computes size statistics over chunks.
func TokenStats(chunks []Chunk) ChunkTokenStats {
	counts := make([]int, len(chunks))
	for i, c := range chunks {
		counts[i] = EstimateTokens(c.Text)
	}
	return computeTokenStats(counts)
}

func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
