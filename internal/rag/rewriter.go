package rag

import (
	"context"
	"fmt"
	"strings"

	"nigerian-law-ai/internal/contextutil"
)

// QueryRewriter turns a user question into a search query with one generation call.
// Output varies between calls with the same question.
type QueryRewriter struct {
	llm     LLMClient
	prompts Prompts
}

// NewQueryRewriter creates a QueryRewriter.
func NewQueryRewriter(llm LLMClient, prompts Prompts) *QueryRewriter {
	return &QueryRewriter{llm: llm, prompts: prompts}
}

// Rewrite returns the generated search query, trimmed of surrounding whitespace.
// An empty generation falls back to the question itself.
func (r *QueryRewriter) Rewrite(ctx context.Context, question string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	out, err := r.llm.Chat(ctx, r.prompts.Render(PromptRewrite, question, ""))
	if err != nil {
		return "", fmt.Errorf("%w: rewrite query: %w", ErrGenerationFailure, err)
	}

	query := strings.TrimSpace(out)
	if query == "" {
		logger.WarnContext(ctx, "query rewrite returned empty text, searching with the question")
		return question, nil
	}

	logger.DebugContext(ctx, "query rewritten", "rewritten_query", contextutil.Truncate(query, 100))
	return query, nil
}
