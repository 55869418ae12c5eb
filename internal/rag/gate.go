package rag

import "strings"

// RelevanceThreshold is the number of shared words a chunk needs with the question
// to count as relevant.
const RelevanceThreshold = 5

// IsRelevant reports whether any chunk shares at least RelevanceThreshold distinct
// words with the question. Words are lowercase, whitespace-delimited tokens; a chunk's
// words are the union of its content and title words. Punctuation stays attached,
// so "business?" and "business" are different words.
func IsRelevant(question string, chunks []RetrievedChunk) bool {
	if len(chunks) == 0 {
		return false
	}

	questionWords := wordSet(question)
	if len(questionWords) < RelevanceThreshold {
		return false
	}

	for _, chunk := range chunks {
		if overlap(questionWords, chunk) >= RelevanceThreshold {
			return true
		}
	}
	return false
}

// overlap counts question words present in the chunk's content or title.
func overlap(questionWords map[string]struct{}, chunk RetrievedChunk) int {
	chunkWords := wordSet(chunk.Content)
	for _, w := range strings.Fields(strings.ToLower(chunk.Title)) {
		chunkWords[w] = struct{}{}
	}

	n := 0
	for w := range questionWords {
		if _, ok := chunkWords[w]; ok {
			n++
		}
	}
	return n
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
