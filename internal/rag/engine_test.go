package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"nigerian-law-ai/internal/rag"
	"nigerian-law-ai/internal/rag/mocks"
)

var testPrompts = rag.Prompts{
	rag.PromptGreeting:   "GREETING {question}",
	rag.PromptWhatAreYou: "WHATAREYOU {question}",
	rag.PromptRedirect:   "REDIRECT {question}",
	rag.PromptGrounding:  "GROUNDING {context}|{question}",
	rag.PromptRewrite:    "REWRITE {question}",
}

// chatReplies answers Chat calls by prompt prefix and records the prompts seen.
type chatReplies struct {
	rewrite string
	answer  string
	err     error
	prompts []string
}

func (c *chatReplies) reply(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if strings.HasPrefix(prompt, "REWRITE ") {
		return c.rewrite, nil
	}
	return c.answer, nil
}

func businessChunks() []rag.RetrievedChunk {
	return []rag.RetrievedChunk{
		{Title: "companies", SourceURL: "https://x/companies.md", Content: "What are the requirements to register a company in Nigeria"},
		{Title: "tax", SourceURL: "https://x/tax.md", Content: "value added tax is charged on goods"},
		{Title: "business-names", SourceURL: "https://x/business-names.md", Content: "the requirements to register a business name are"},
		{Title: "labour", SourceURL: "https://x/labour.md", Content: "an employer shall pay wages"},
		{Title: "land", SourceURL: "https://x/land.md", Content: "all land in a state is vested in the governor"},
	}
}

func newTestEngine(t *testing.T, index rag.Index, llm rag.LLMClient, opts rag.Options) rag.Engine {
	t.Helper()
	engine, err := rag.NewEngine(index, llm, testPrompts, opts)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func TestNewEngine_InvalidPrompts(t *testing.T) {
	_, err := rag.NewEngine(nil, nil, rag.Prompts{rag.PromptGreeting: "hi"}, rag.Options{})
	if err == nil {
		t.Error("NewEngine() with an incomplete prompt table should fail")
	}
}

func TestEngine_Ask_Greeting(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)
	index := mocks.NewMockIndex(ctrl)

	replies := &chatReplies{answer: "  Hello! Ask me about Nigerian law.  "}
	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply).Times(1)
	// The index is never consulted for greetings.

	resp, err := newTestEngine(t, index, llm, rag.Options{}).Ask(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if replies.prompts[0] != "GREETING hello" {
		t.Errorf("prompt = %q, want greeting prompt", replies.prompts[0])
	}
	if resp.Answer != "Hello! Ask me about Nigerian law." {
		t.Errorf("Answer = %q, want trimmed reply", resp.Answer)
	}
	if resp.Sources == nil || len(resp.Sources) != 0 {
		t.Errorf("Sources = %#v, want empty non-nil", resp.Sources)
	}
	if resp.RelevantChunksFound != 0 || resp.ContextChunksUsed != 0 {
		t.Errorf("counts = %d/%d, want 0/0", resp.RelevantChunksFound, resp.ContextChunksUsed)
	}
	if resp.Question != "hello" || resp.Timestamp.IsZero() {
		t.Errorf("Question/Timestamp = %q/%v", resp.Question, resp.Timestamp)
	}
}

func TestEngine_Ask_WhatAreYou(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)

	replies := &chatReplies{answer: "I am a Nigerian law assistant."}
	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply)

	// Canned answers work even when the index did not load.
	_, err := newTestEngine(t, nil, llm, rag.Options{}).Ask(context.Background(), "Who are you?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if replies.prompts[0] != "WHATAREYOU Who are you?" {
		t.Errorf("prompt = %q, want what-are-you prompt", replies.prompts[0])
	}
}

func TestEngine_Ask_RelevantContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)
	index := mocks.NewMockIndex(ctrl)

	question := "What are the requirements to register a business?"
	replies := &chatReplies{rewrite: "  business registration requirements CAMA  ", answer: "You must register with the CAC."}

	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply).Times(2)
	index.EXPECT().Available().Return(true)
	// Search uses the rewritten query.
	index.EXPECT().Search(gomock.Any(), "business registration requirements CAMA", 5).Return(businessChunks(), nil)

	resp, err := newTestEngine(t, index, llm, rag.Options{MaxContextLength: 3500}).Ask(context.Background(), question)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if replies.prompts[0] != "REWRITE "+question {
		t.Errorf("first prompt = %q, want rewrite of the question", replies.prompts[0])
	}
	grounding := replies.prompts[1]
	if !strings.HasPrefix(grounding, "GROUNDING Source: companies (https://x/companies.md)\nContent: ") {
		t.Errorf("grounding prompt does not start with the first chunk:\n%s", grounding)
	}
	// The final prompt carries the original question, not the rewritten query.
	if !strings.HasSuffix(grounding, "|"+question) {
		t.Errorf("grounding prompt does not end with the original question:\n%s", grounding)
	}

	if len(resp.Sources) == 0 {
		t.Error("Sources is empty, want citations")
	}
	if resp.RelevantChunksFound != 5 {
		t.Errorf("RelevantChunksFound = %d, want 5", resp.RelevantChunksFound)
	}
	if resp.ContextChunksUsed > resp.RelevantChunksFound || resp.ContextChunksUsed != 5 {
		t.Errorf("ContextChunksUsed = %d, want 5", resp.ContextChunksUsed)
	}
	if resp.Answer != "You must register with the CAC." {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestEngine_Ask_BudgetLimitsContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)
	index := mocks.NewMockIndex(ctrl)

	chunks := businessChunks()
	budget := len(rag.FormatChunk(chunks[0])) + len(rag.FormatChunk(chunks[1]))

	replies := &chatReplies{rewrite: "q", answer: "a"}
	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply).Times(2)
	index.EXPECT().Available().Return(true)
	index.EXPECT().Search(gomock.Any(), "q", 7).Return(chunks, nil)

	engine := newTestEngine(t, index, llm, rag.Options{TopK: 7, MaxContextLength: budget})
	resp, err := engine.Ask(context.Background(), "What are the requirements to register a business?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resp.ContextChunksUsed != 2 {
		t.Errorf("ContextChunksUsed = %d, want 2", resp.ContextChunksUsed)
	}
	want := []string{"companies (https://x/companies.md)", "tax (https://x/tax.md)"}
	if strings.Join(resp.Sources, "|") != strings.Join(want, "|") {
		t.Errorf("Sources = %q, want %q", resp.Sources, want)
	}
}

func TestEngine_Ask_IrrelevantRedirects(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)
	index := mocks.NewMockIndex(ctrl)

	question := "What's the weather today?"
	replies := &chatReplies{rewrite: "weather forecast today", answer: "I can only help with Nigerian law."}

	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply).Times(2)
	index.EXPECT().Available().Return(true)
	index.EXPECT().Search(gomock.Any(), gomock.Any(), 5).Return(businessChunks(), nil)

	resp, err := newTestEngine(t, index, llm, rag.Options{}).Ask(context.Background(), question)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if replies.prompts[1] != "REDIRECT "+question {
		t.Errorf("final prompt = %q, want redirect prompt", replies.prompts[1])
	}
	if len(resp.Sources) != 0 {
		t.Errorf("Sources = %q, want empty", resp.Sources)
	}
	if resp.ContextChunksUsed != 0 {
		t.Errorf("ContextChunksUsed = %d, want 0", resp.ContextChunksUsed)
	}
	if resp.RelevantChunksFound != 5 {
		t.Errorf("RelevantChunksFound = %d, want 5 (actual retrieved count)", resp.RelevantChunksFound)
	}
}

func TestEngine_Ask_EmptyRetrievalRedirects(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMClient(ctrl)
	index := mocks.NewMockIndex(ctrl)

	replies := &chatReplies{rewrite: "q", answer: "a"}
	llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(replies.reply).Times(2)
	index.EXPECT().Available().Return(true)
	index.EXPECT().Search(gomock.Any(), "q", 5).Return(nil, nil)

	resp, err := newTestEngine(t, index, llm, rag.Options{}).Ask(context.Background(), "Explain the Land Use Act")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.HasPrefix(replies.prompts[1], "REDIRECT ") {
		t.Errorf("final prompt = %q, want redirect", replies.prompts[1])
	}
	if resp.RelevantChunksFound != 0 || resp.ContextChunksUsed != 0 {
		t.Errorf("counts = %d/%d, want 0/0", resp.RelevantChunksFound, resp.ContextChunksUsed)
	}
}

func TestEngine_Ask_Errors(t *testing.T) {
	backendErr := errors.New("connection refused")

	tests := []struct {
		name    string
		setup   func(llm *mocks.MockLLMClient, index *mocks.MockIndex)
		noLLM   bool
		wantErr error
	}{
		{
			name: "index unavailable",
			setup: func(llm *mocks.MockLLMClient, index *mocks.MockIndex) {
				index.EXPECT().Available().Return(false)
			},
			wantErr: rag.ErrIndexUnavailable,
		},
		{
			name:    "no generator",
			setup:   func(llm *mocks.MockLLMClient, index *mocks.MockIndex) {},
			noLLM:   true,
			wantErr: rag.ErrGeneratorUnavailable,
		},
		{
			name: "rewrite fails",
			setup: func(llm *mocks.MockLLMClient, index *mocks.MockIndex) {
				index.EXPECT().Available().Return(true)
				llm.EXPECT().Chat(gomock.Any(), "REWRITE Explain the Labour Act").Return("", backendErr)
			},
			wantErr: rag.ErrGenerationFailure,
		},
		{
			name: "search fails",
			setup: func(llm *mocks.MockLLMClient, index *mocks.MockIndex) {
				index.EXPECT().Available().Return(true)
				llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return("labour act", nil)
				index.EXPECT().Search(gomock.Any(), "labour act", 5).Return(nil, errors.Join(rag.ErrSearchFailure, backendErr))
			},
			wantErr: rag.ErrSearchFailure,
		},
		{
			name: "final generation fails",
			setup: func(llm *mocks.MockLLMClient, index *mocks.MockIndex) {
				index.EXPECT().Available().Return(true)
				gomock.InOrder(
					llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return("labour act", nil),
					llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return("", backendErr),
				)
				index.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantErr: rag.ErrGenerationFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			llm := mocks.NewMockLLMClient(ctrl)
			index := mocks.NewMockIndex(ctrl)
			tt.setup(llm, index)

			var client rag.LLMClient = llm
			if tt.noLLM {
				client = nil
			}

			_, err := newTestEngine(t, index, client, rag.Options{}).Ask(context.Background(), "Explain the Labour Act")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
