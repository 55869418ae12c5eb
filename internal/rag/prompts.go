package rag

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptKind names a prompt template.
type PromptKind string

const (
	PromptGreeting   PromptKind = "greeting"
	PromptWhatAreYou PromptKind = "what_are_you"
	PromptRedirect   PromptKind = "redirect"
	PromptGrounding  PromptKind = "grounding"
	PromptRewrite    PromptKind = "rewrite"
)

// Template placeholders.
const (
	PlaceholderQuestion = "{question}"
	PlaceholderContext  = "{context}"
)

// requiredPlaceholders lists what each call site substitutes into its template.
var requiredPlaceholders = map[PromptKind][]string{
	PromptGreeting:   {PlaceholderQuestion},
	PromptWhatAreYou: {PlaceholderQuestion},
	PromptRedirect:   {PlaceholderQuestion},
	PromptGrounding:  {PlaceholderContext, PlaceholderQuestion},
	PromptRewrite:    {PlaceholderQuestion},
}

// Prompts maps each PromptKind to its template.
type Prompts map[PromptKind]string

// DefaultPrompts returns the built-in prompt table.
func DefaultPrompts() Prompts {
	return Prompts{
		PromptGreeting: `You are a friendly assistant specialised in Nigerian law.
The user greeted you with: "{question}"
Reply with a short, warm greeting, introduce yourself as a Nigerian law assistant, and invite them to ask a legal question.
For example: "What are the legal requirements for registering a business in Nigeria?"`,

		PromptWhatAreYou: `You are an AI assistant that answers questions about Nigerian laws using a knowledge base of Nigerian legal documents.
The user asked: "{question}"
Explain briefly what you are and what kinds of questions you can help with, such as company registration, labour, tax, land and criminal law in Nigeria.`,

		PromptRedirect: `You are a Nigerian law assistant. The user asked: "{question}"
The question does not appear to be related to Nigerian law, or the knowledge base has no relevant information for it.
Politely say that you can only help with questions about Nigerian laws and suggest a meaningful question.
For example: "What are the legal requirements for registering a business in Nigeria?"`,

		PromptGrounding: `You are an expert on Nigerian laws. Use the following context to answer the question accurately and informatively.
If the context doesn't contain enough information, state clearly that you cannot answer based on the provided information.
Always provide specific dates, names, and events when available.
Keep your answer informative but concise.

Context:
{context}

Question: {question}

Answer:`,

		PromptRewrite: `Rewrite the following question about Nigerian law as a concise search query for a legal document database.
Keep the important legal terms, names of acts and institutions. Return only the query, nothing else.

Question: {question}

Search query:`,
	}
}

// LoadPrompts returns the default prompts with overrides from a YAML file applied.
// The file maps prompt kinds to templates; an empty path means no overrides.
// The resulting table is validated.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompts file: %w", err)
		}

		var overrides map[string]string
		if err := yaml.Unmarshal(raw, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse prompts file: %w", err)
		}

		for name, template := range overrides {
			kind := PromptKind(name)
			if _, ok := requiredPlaceholders[kind]; !ok {
				return nil, fmt.Errorf("unknown prompt kind %q in %s", name, path)
			}
			prompts[kind] = template
		}
	}

	if err := prompts.Validate(); err != nil {
		return nil, err
	}
	return prompts, nil
}

// Validate checks that every prompt kind has a template containing the
// placeholders its call site fills in.
func (p Prompts) Validate() error {
	kinds := make([]string, 0, len(requiredPlaceholders))
	for kind := range requiredPlaceholders {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	var problems []string
	for _, name := range kinds {
		kind := PromptKind(name)
		template, ok := p[kind]
		if !ok || strings.TrimSpace(template) == "" {
			problems = append(problems, fmt.Sprintf("%s: missing template", kind))
			continue
		}
		for _, placeholder := range requiredPlaceholders[kind] {
			if !strings.Contains(template, placeholder) {
				problems = append(problems, fmt.Sprintf("%s: missing placeholder %s", kind, placeholder))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid prompt table: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Render substitutes the question and context into the template of the given kind.
// Placeholder values are inserted verbatim in a single pass.
func (p Prompts) Render(kind PromptKind, question, context string) string {
	return strings.NewReplacer(
		PlaceholderQuestion, question,
		PlaceholderContext, context,
	).Replace(p[kind])
}
