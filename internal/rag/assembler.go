package rag

import "strings"

// Assembly is the context built from retrieved chunks.
type Assembly struct {
	// Context is the concatenation of the formatted blocks of Used.
	Context string
	// Used is the prefix of the input chunks that fit the budget.
	Used []RetrievedChunk
	// Sources holds the distinct citations of Used in first-encounter order.
	Sources []string
}

// FormatChunk renders a chunk as a context block:
//
//	Source: {citation}
//	Content: {content}
//	<blank line>
func FormatChunk(c RetrievedChunk) string {
	return "Source: " + c.Citation() + "\nContent: " + c.Content + "\n\n"
}

// Assemble concatenates formatted chunks in order until the next block would push
// the context past budget bytes. Chunks are never split or reordered; everything
// from the first chunk that does not fit onwards is dropped.
func Assemble(chunks []RetrievedChunk, budget int) Assembly {
	var (
		b       strings.Builder
		used    []RetrievedChunk
		sources []string
		seen    = make(map[string]struct{})
	)

	for _, chunk := range chunks {
		block := FormatChunk(chunk)
		if b.Len()+len(block) > budget {
			break
		}
		b.WriteString(block)
		used = append(used, chunk)

		citation := chunk.Citation()
		if _, dup := seen[citation]; !dup {
			seen[citation] = struct{}{}
			sources = append(sources, citation)
		}
	}

	if sources == nil {
		sources = []string{}
	}
	return Assembly{Context: b.String(), Used: used, Sources: sources}
}
