package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ask_service.go -package=mocks -mock_names=AskService=MockAskService nigerian-law-ai/internal/service AskService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/rag"
)

// AskService answers questions about Nigerian law.
type AskService interface {
	// ProcessQuestion answers a question and returns the complete response.
	ProcessQuestion(ctx context.Context, question string) (rag.ResponseEnvelope, error)
	// StreamQuestion answers a question and emits stream events in order.
	// Errors returned before the first event mean nothing was emitted.
	StreamQuestion(ctx context.Context, question string, emit func(rag.StreamEvent) error) error
}

type askService struct {
	engine rag.Engine
}

// NewAskService creates a new AskService.
func NewAskService(engine rag.Engine) AskService {
	return &askService{engine: engine}
}

// ProcessQuestion processes a synchronous question.
func (s *askService) ProcessQuestion(ctx context.Context, question string) (rag.ResponseEnvelope, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question, err := validateQuestion(question)
	if err != nil {
		logger.WarnContext(ctx, "empty question in ask request")
		return rag.ResponseEnvelope{}, err
	}

	resp, err := s.engine.Ask(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return rag.ResponseEnvelope{}, mapEngineError(err)
	}

	logger.InfoContext(ctx, "question answered",
		"question", contextutil.Truncate(question, 50),
		"sources", len(resp.Sources),
		"context_chunks_used", resp.ContextChunksUsed,
	)
	return resp, nil
}

// StreamQuestion processes a streaming question.
func (s *askService) StreamQuestion(ctx context.Context, question string, emit func(rag.StreamEvent) error) error {
	logger := contextutil.LoggerFromContext(ctx)

	question, err := validateQuestion(question)
	if err != nil {
		logger.WarnContext(ctx, "empty question in streaming ask request")
		return err
	}

	if err := s.engine.AskStream(ctx, question, emit); err != nil {
		logger.ErrorContext(ctx, "failed to stream answer", "error", err)
		return mapEngineError(err)
	}

	logger.InfoContext(ctx, "streaming question processed", "question", contextutil.Truncate(question, 50))
	return nil
}

func validateQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}
	return question, nil
}

// mapEngineError translates engine sentinels into service errors. The original
// error stays in the chain for logging.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, rag.ErrIndexUnavailable),
		errors.Is(err, rag.ErrGeneratorUnavailable),
		errors.Is(err, rag.ErrSearchFailure):
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	case errors.Is(err, rag.ErrGenerationFailure):
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	default:
		return WrapError(err, "failed to answer question")
	}
}
