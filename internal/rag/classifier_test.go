package rag

import "testing"

func TestRouter_Classify(t *testing.T) {
	router := NewRouter(DefaultRules)

	tests := []struct {
		question string
		want     Category
	}{
		{"hello", Greeting},
		{"  HELLO there ", Greeting},
		{"Hey!", Greeting},
		{"Greetings, assistant", Greeting},
		{"hi, what are you", Greeting},
		{"What are you?", WhatAreYou},
		{"who are you", WhatAreYou},
		{"Please tell me about yourself", WhatAreYou},
		{"What are the requirements to register a business?", Substantive},
		{"What's the weather today?", Substantive},
		// Substring matching: "hi" inside "which" and "this".
		{"Which law governs this matter?", Greeting},
		{"", Substantive},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := router.Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

func TestRouter_CustomRules(t *testing.T) {
	router := NewRouter([]Rule{
		{Category: WhatAreYou, Triggers: []string{"  Your Name ", ""}},
		{Category: Greeting, Triggers: []string{"good morning"}},
	})

	tests := []struct {
		question string
		want     Category
	}{
		{"what is your name", WhatAreYou},
		{"Good morning! What is your name?", WhatAreYou},
		{"good morning", Greeting},
		{"hello", Substantive},
	}

	for _, tt := range tests {
		if got := router.Classify(tt.question); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestCannedPrompt(t *testing.T) {
	if cannedPrompt(Greeting) != PromptGreeting {
		t.Error("Greeting should use the greeting prompt")
	}
	if cannedPrompt(WhatAreYou) != PromptWhatAreYou {
		t.Error("WhatAreYou should use the what-are-you prompt")
	}
}
