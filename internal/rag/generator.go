package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks nigerian-law-ai/internal/rag LLMClient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LLMClient is the text-generation capability.
type LLMClient interface {
	// Chat returns the full completion of prompt.
	Chat(ctx context.Context, prompt string) (string, error)
	// StreamChat calls callback with each generated fragment, in order.
	StreamChat(ctx context.Context, prompt string, callback func(chunk string) error) error
	// ModelName identifies the model, reported in stream metadata.
	ModelName() string
}

// AnswerGenerator invokes the language model for final answers.
type AnswerGenerator struct {
	llm LLMClient
}

// NewAnswerGenerator creates an AnswerGenerator.
func NewAnswerGenerator(llm LLMClient) *AnswerGenerator {
	return &AnswerGenerator{llm: llm}
}

// Model returns the name of the underlying model.
func (g *AnswerGenerator) Model() string {
	return g.llm.ModelName()
}

// Generate returns the trimmed completion of prompt.
func (g *AnswerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := g.llm.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}
	return strings.TrimSpace(answer), nil
}

// errEmit marks failures of the fragment consumer so they are not reported as
// generation failures.
type errEmit struct{ err error }

func (e errEmit) Error() string { return e.err.Error() }
func (e errEmit) Unwrap() error { return e.err }

// Stream forwards each generated fragment to onFragment as it arrives and returns the
// concatenated answer. A backend failure is wrapped in ErrGenerationFailure; an
// onFragment failure is returned as-is and stops generation.
func (g *AnswerGenerator) Stream(ctx context.Context, prompt string, onFragment func(string) error) (string, error) {
	var full strings.Builder

	err := g.llm.StreamChat(ctx, prompt, func(fragment string) error {
		full.WriteString(fragment)
		if err := onFragment(fragment); err != nil {
			return errEmit{err}
		}
		return nil
	})
	if err != nil {
		var emitErr errEmit
		if errors.As(err, &emitErr) {
			return full.String(), emitErr.err
		}
		return full.String(), fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	return full.String(), nil
}
