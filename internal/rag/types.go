package rag

import (
	"encoding/json"
	"time"
)

// Sentinels used when a chunk carries no provenance.
const (
	UnknownTitle = "Unknown"
	UnknownURL   = "No URL"
)

// RetrievedChunk is a unit of text returned by the vector index for a single query.
type RetrievedChunk struct {
	// Content is the chunk text.
	Content string
	// Title is the provenance label (document title or file path).
	Title string
	// SourceURL is the origin of the chunk, or UnknownURL.
	SourceURL string
	// Score is the similarity score reported by the index.
	Score float32
	// Metadata is the remaining index payload.
	Metadata map[string]any
}

// Citation returns the human-readable provenance of the chunk:
// "{title} ({url})", or just the title when the URL is unknown.
func (c RetrievedChunk) Citation() string {
	title := c.Title
	if title == "" {
		title = UnknownTitle
	}
	if isUnknownURL(c.SourceURL) {
		return title
	}
	return title + " (" + c.SourceURL + ")"
}

func isUnknownURL(u string) bool {
	switch u {
	case "", UnknownURL, "Unknown URL", UnknownTitle:
		return true
	}
	return false
}

// QueryContext is the per-request record of the substantive path.
// OriginalQuestion drives gating and the final prompt; RewrittenQuery only drives search.
type QueryContext struct {
	OriginalQuestion string
	RewrittenQuery   string
	RetrievedChunks  []RetrievedChunk
	UsedChunks       []RetrievedChunk
	AssembledContext string
	Sources          []string
}

// ResponseEnvelope is the synchronous answer to a question.
type ResponseEnvelope struct {
	Question            string    `json:"question"`
	Answer              string    `json:"answer"`
	Sources             []string  `json:"sources"`
	RelevantChunksFound int       `json:"relevant_chunks_found"`
	ContextChunksUsed   int       `json:"context_chunks_used"`
	Timestamp           time.Time `json:"timestamp"`
}

// EventType tags a StreamEvent.
type EventType string

const (
	EventInfo     EventType = "info"
	EventMetadata EventType = "metadata"
	EventChunk    EventType = "chunk"
	EventEnd      EventType = "end"
	EventError    EventType = "error"
)

// StreamEvent is one record of a streamed answer.
// Which fields are meaningful depends on Type; see MarshalJSON.
type StreamEvent struct {
	Type EventType

	// info, chunk
	Content string

	// metadata
	RelevantChunksFound int
	ContextChunksUsed   int
	Model               string

	// end
	FullAnswer     string
	GenerationTime time.Duration

	// error
	Error string

	// end, error
	Timestamp time.Time
}

// IsTerminal reports whether the event ends a stream.
func (e StreamEvent) IsTerminal() bool {
	return e.Type == EventEnd || e.Type == EventError
}

// MarshalJSON encodes only the fields of the event's variant, tagged by "type".
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventInfo, EventChunk:
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			Content string    `json:"content"`
		}{e.Type, e.Content})
	case EventMetadata:
		return json.Marshal(struct {
			Type                EventType `json:"type"`
			RelevantChunksFound int       `json:"relevant_chunks_found"`
			ContextChunksUsed   int       `json:"context_chunks_used"`
			Model               string    `json:"model"`
		}{e.Type, e.RelevantChunksFound, e.ContextChunksUsed, e.Model})
	case EventEnd:
		return json.Marshal(struct {
			Type           EventType `json:"type"`
			FullAnswer     string    `json:"full_answer"`
			Timestamp      time.Time `json:"timestamp"`
			GenerationTime string    `json:"generation_time"`
		}{e.Type, e.FullAnswer, e.Timestamp, formatSeconds(e.GenerationTime)})
	case EventError:
		return json.Marshal(struct {
			Type      EventType `json:"type"`
			Error     string    `json:"error"`
			Timestamp time.Time `json:"timestamp"`
		}{e.Type, e.Error, e.Timestamp})
	default:
		return json.Marshal(struct {
			Type EventType `json:"type"`
		}{e.Type})
	}
}
