package indexer

// Chunk represents a piece of cleaned document text.
type Chunk struct {
	Index int    // Position among the document's split chunks (starts at 0)
	Text  string // Cleaned chunk text
}
