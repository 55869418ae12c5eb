package rag

import "strings"

// Category is the conversational class of a question.
type Category int

const (
	Substantive Category = iota
	Greeting
	WhatAreYou
)

func (c Category) String() string {
	switch c {
	case Greeting:
		return "greeting"
	case WhatAreYou:
		return "what_are_you"
	default:
		return "substantive"
	}
}

// Rule assigns Category to questions containing any of Triggers.
type Rule struct {
	Category Category
	Triggers []string
}

// DefaultRules is the built-in routing table. Order matters: the first matching rule wins.
// Matching is plain substring containment, so "hi" also matches "this" or "which".
var DefaultRules = []Rule{
	{Category: Greeting, Triggers: []string{"hello", "hi", "hey", "greetings"}},
	{Category: WhatAreYou, Triggers: []string{"what are you", "who are you", "tell me about yourself"}},
}

// Router classifies questions with an ordered rule table.
type Router struct {
	rules []Rule
}

// NewRouter creates a Router. Triggers are matched case-insensitively.
func NewRouter(rules []Rule) *Router {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		triggers := make([]string, 0, len(r.Triggers))
		for _, t := range r.Triggers {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				triggers = append(triggers, t)
			}
		}
		normalized = append(normalized, Rule{Category: r.Category, Triggers: triggers})
	}
	return &Router{rules: normalized}
}

// Classify returns the category of the first rule with a trigger contained in the
// lowercased, trimmed question, or Substantive when none matches.
func (r *Router) Classify(question string) Category {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, rule := range r.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(q, trigger) {
				return rule.Category
			}
		}
	}
	return Substantive
}

// cannedPrompt returns the prompt used to answer a non-substantive category.
func cannedPrompt(c Category) PromptKind {
	if c == WhatAreYou {
		return PromptWhatAreYou
	}
	return PromptGreeting
}
