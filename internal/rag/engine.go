package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks nigerian-law-ai/internal/rag Engine

import (
	"context"
	"errors"
	"time"

	"nigerian-law-ai/internal/contextutil"
)

const (
	// DefaultTopK is the number of chunks retrieved per substantive question.
	DefaultTopK = 5
	// DefaultMaxContextLength is the context budget in bytes.
	DefaultMaxContextLength = 3500
)

const noContextMessage = "No highly relevant information found in the knowledge base for this question. " +
	"Attempting to generate an answer with limited context."

// Engine answers questions about Nigerian law.
type Engine interface {
	// Ask answers a question and returns the complete response.
	Ask(ctx context.Context, question string) (ResponseEnvelope, error)

	// AskStream answers a question by emitting events in order: an optional info event,
	// a metadata event, zero or more chunk events, then exactly one end or error event.
	// It returns an error without emitting anything when the index or generator is
	// unavailable, and returns emit's error if emit fails. Other failures are reported
	// as an error event.
	AskStream(ctx context.Context, question string, emit func(StreamEvent) error) error
}

// Options configures an Engine. Zero values take defaults.
type Options struct {
	TopK             int
	MaxContextLength int
	Rules            []Rule
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	index            Index
	llm              LLMClient
	router           *Router
	rewriter         *QueryRewriter
	generator        *AnswerGenerator
	prompts          Prompts
	topK             int
	maxContextLength int
	now              func() time.Time
}

// NewEngine creates an Engine. The prompt table is validated here so a broken
// override fails at startup. index and llm may be nil, in which case requests that
// need them fail with ErrIndexUnavailable or ErrGeneratorUnavailable.
func NewEngine(index Index, llm LLMClient, prompts Prompts, opts Options) (Engine, error) {
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxContextLength <= 0 {
		opts.MaxContextLength = DefaultMaxContextLength
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules
	}

	e := &ragEngine{
		index:            index,
		llm:              llm,
		router:           NewRouter(opts.Rules),
		prompts:          prompts,
		topK:             opts.TopK,
		maxContextLength: opts.MaxContextLength,
		now:              time.Now,
	}
	if llm != nil {
		e.rewriter = NewQueryRewriter(llm, prompts)
		e.generator = NewAnswerGenerator(llm)
	}
	return e, nil
}

// plan is everything decided before the final generation call.
type plan struct {
	category Category
	query    QueryContext
	prompt   string
	// info is set when the answer will be generated without context.
	info string
}

// prepare classifies the question and, for substantive questions, runs
// rewrite, search, gating and assembly.
func (e *ragEngine) prepare(ctx context.Context, question string) (plan, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if e.llm == nil {
		return plan{}, ErrGeneratorUnavailable
	}

	p := plan{
		category: e.router.Classify(question),
		query:    QueryContext{OriginalQuestion: question, Sources: []string{}},
	}
	logger.InfoContext(ctx, "question classified",
		"question", contextutil.Truncate(question, 50),
		"category", p.category.String(),
	)

	if p.category != Substantive {
		p.prompt = e.prompts.Render(cannedPrompt(p.category), question, "")
		return p, nil
	}

	if e.index == nil || !e.index.Available() {
		return plan{}, ErrIndexUnavailable
	}

	rewritten, err := e.rewriter.Rewrite(ctx, question)
	if err != nil {
		return plan{}, err
	}
	p.query.RewrittenQuery = rewritten

	chunks, err := e.index.Search(ctx, rewritten, e.topK)
	if err != nil {
		return plan{}, err
	}
	p.query.RetrievedChunks = chunks

	// Gate on the original question, not the rewritten query.
	if !IsRelevant(question, chunks) {
		logger.InfoContext(ctx, "retrieved chunks not relevant, redirecting", "retrieved", len(chunks))
		p.prompt = e.prompts.Render(PromptRedirect, question, "")
		p.info = noContextMessage
		return p, nil
	}

	assembly := Assemble(chunks, e.maxContextLength)
	p.query.UsedChunks = assembly.Used
	p.query.AssembledContext = assembly.Context
	p.query.Sources = assembly.Sources
	if assembly.Context == "" {
		p.info = noContextMessage
	}

	logger.InfoContext(ctx, "context assembled",
		"retrieved", len(chunks),
		"used", len(assembly.Used),
		"context_length", len(assembly.Context),
	)

	p.prompt = e.prompts.Render(PromptGrounding, question, assembly.Context)
	return p, nil
}

// Ask answers a question and returns the complete response.
func (e *ragEngine) Ask(ctx context.Context, question string) (ResponseEnvelope, error) {
	logger := contextutil.LoggerFromContext(ctx)

	p, err := e.prepare(ctx, question)
	if err != nil {
		return ResponseEnvelope{}, err
	}

	answer, err := e.generator.Generate(ctx, p.prompt)
	if err != nil {
		return ResponseEnvelope{}, err
	}

	logger.InfoContext(ctx, "answer generated",
		"category", p.category.String(),
		"answer_length", len(answer),
		"sources", len(p.query.Sources),
	)

	return ResponseEnvelope{
		Question:            question,
		Answer:              answer,
		Sources:             p.query.Sources,
		RelevantChunksFound: len(p.query.RetrievedChunks),
		ContextChunksUsed:   len(p.query.UsedChunks),
		Timestamp:           e.now(),
	}, nil
}

// AskStream answers a question as a sequence of events.
func (e *ragEngine) AskStream(ctx context.Context, question string, emit func(StreamEvent) error) error {
	logger := contextutil.LoggerFromContext(ctx)
	start := e.now()

	p, err := e.prepare(ctx, question)
	if err != nil {
		if errors.Is(err, ErrIndexUnavailable) || errors.Is(err, ErrGeneratorUnavailable) {
			return err
		}
		return e.emitError(ctx, emit, err)
	}

	if p.info != "" {
		if err := emit(StreamEvent{Type: EventInfo, Content: p.info}); err != nil {
			return err
		}
	}

	if err := emit(StreamEvent{
		Type:                EventMetadata,
		RelevantChunksFound: len(p.query.RetrievedChunks),
		ContextChunksUsed:   len(p.query.UsedChunks),
		Model:               e.generator.Model(),
	}); err != nil {
		return err
	}

	answer, err := e.generator.Stream(ctx, p.prompt, func(fragment string) error {
		return emit(StreamEvent{Type: EventChunk, Content: fragment})
	})
	if err != nil {
		if !errors.Is(err, ErrGenerationFailure) {
			// The consumer went away; nothing more can be delivered.
			logger.WarnContext(ctx, "stream consumer failed", "error", err)
			return err
		}
		return e.emitError(ctx, emit, err)
	}

	end := e.now()
	logger.InfoContext(ctx, "streamed answer generated",
		"category", p.category.String(),
		"answer_length", len(answer),
		"duration", end.Sub(start),
	)

	return emit(StreamEvent{
		Type:           EventEnd,
		FullAnswer:     answer,
		Timestamp:      end,
		GenerationTime: end.Sub(start),
	})
}

func (e *ragEngine) emitError(ctx context.Context, emit func(StreamEvent) error, err error) error {
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to answer question", "error", err)
	return emit(StreamEvent{
		Type:      EventError,
		Error:     userMessage(err),
		Timestamp: e.now(),
	})
}
