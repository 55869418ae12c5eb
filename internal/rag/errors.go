package rag

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIndexUnavailable is returned when the vector index failed to load at startup.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrGeneratorUnavailable is returned when no language model is configured.
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	// ErrGenerationFailure wraps any error from the language model backend.
	ErrGenerationFailure = errors.New("generation failed")
	// ErrSearchFailure wraps errors from embedding the query or searching the index.
	ErrSearchFailure = errors.New("search failed")
)

// userMessage summarizes err for the caller without leaking backend details.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrSearchFailure):
		return "Could not search the legal knowledge base. Please try again later."
	case errors.Is(err, ErrGenerationFailure):
		return "The language model failed to generate an answer. Please try again later."
	case errors.Is(err, ErrIndexUnavailable), errors.Is(err, ErrGeneratorUnavailable):
		return "The assistant is not ready yet. Please try again later."
	default:
		return "An unexpected error occurred while answering the question."
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}
