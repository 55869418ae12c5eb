package rag

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func testChunks(n int) []RetrievedChunk {
	chunks := make([]RetrievedChunk, n)
	for i := range chunks {
		chunks[i] = RetrievedChunk{
			Title:     fmt.Sprintf("act-%d", i),
			SourceURL: fmt.Sprintf("https://github.com/mykeels/nigerian-laws/blob/master/act-%d.md", i),
			Content:   strings.Repeat(fmt.Sprintf("section %d ", i), 10+i*7),
		}
	}
	return chunks
}

func TestAssemble_UsedIsPrefixWithinBudget(t *testing.T) {
	chunks := testChunks(6)
	total := 0
	for _, c := range chunks {
		total += len(FormatChunk(c))
	}

	for budget := 0; budget <= total+10; budget += 7 {
		a := Assemble(chunks, budget)

		if len(a.Context) > budget {
			t.Fatalf("budget %d: context length %d exceeds budget", budget, len(a.Context))
		}
		for i, used := range a.Used {
			if used.Title != chunks[i].Title {
				t.Fatalf("budget %d: used[%d] = %q, not a prefix of the input", budget, i, used.Title)
			}
		}

		var want strings.Builder
		for _, used := range a.Used {
			want.WriteString(FormatChunk(used))
		}
		if a.Context != want.String() {
			t.Fatalf("budget %d: context is not the concatenation of used blocks", budget)
		}

		// The next chunk, if any, must not have fit.
		if n := len(a.Used); n < len(chunks) && len(a.Context)+len(FormatChunk(chunks[n])) <= budget {
			t.Fatalf("budget %d: chunk %d would have fit but was dropped", budget, n)
		}
	}
}

func TestAssemble_Boundary(t *testing.T) {
	chunk := RetrievedChunk{Title: "companies", SourceURL: "https://x/companies.md", Content: "A company may be registered by two persons."}
	exact := len(FormatChunk(chunk))

	tests := []struct {
		name     string
		budget   int
		wantUsed int
	}{
		{name: "exactly the budget", budget: exact, wantUsed: 1},
		{name: "one byte over", budget: exact - 1, wantUsed: 0},
		{name: "zero budget", budget: 0, wantUsed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assemble([]RetrievedChunk{chunk}, tt.budget)
			if len(a.Used) != tt.wantUsed {
				t.Errorf("Assemble() used %d chunks, want %d", len(a.Used), tt.wantUsed)
			}
			if tt.wantUsed == 0 && (a.Context != "" || len(a.Sources) != 0) {
				t.Errorf("Assemble() = %q/%v, want empty context and sources", a.Context, a.Sources)
			}
		})
	}
}

func TestAssemble_StopsAtFirstOversizedChunk(t *testing.T) {
	small := RetrievedChunk{Title: "a", Content: "short"}
	big := RetrievedChunk{Title: "b", Content: strings.Repeat("x", 500)}
	alsoSmall := RetrievedChunk{Title: "c", Content: "short"}

	a := Assemble([]RetrievedChunk{small, big, alsoSmall}, 100)

	if len(a.Used) != 1 || a.Used[0].Title != "a" {
		t.Errorf("Assemble() used = %+v, want only the first chunk", a.Used)
	}
}

var citationLine = regexp.MustCompile(`^Source: (.+) \((.+)\)$`)

func TestAssemble_CitationsRoundTrip(t *testing.T) {
	chunks := testChunks(3)

	a := Assemble(chunks, 1<<20)

	var got []RetrievedChunk
	for _, line := range strings.Split(a.Context, "\n") {
		if m := citationLine.FindStringSubmatch(line); m != nil {
			got = append(got, RetrievedChunk{Title: m[1], SourceURL: m[2]})
		}
	}

	if len(got) != len(chunks) {
		t.Fatalf("parsed %d citations, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i].Title != chunks[i].Title || got[i].SourceURL != chunks[i].SourceURL {
			t.Errorf("citation %d = %s (%s), want %s (%s)",
				i, got[i].Title, got[i].SourceURL, chunks[i].Title, chunks[i].SourceURL)
		}
	}
}

func TestAssemble_Sources(t *testing.T) {
	chunks := []RetrievedChunk{
		{Title: "labour", SourceURL: "https://x/labour.md", Content: "one"},
		{Title: "tax", SourceURL: UnknownURL, Content: "two"},
		{Title: "labour", SourceURL: "https://x/labour.md", Content: "three"},
	}

	a := Assemble(chunks, 1<<20)

	want := []string{"labour (https://x/labour.md)", "tax"}
	if strings.Join(a.Sources, "|") != strings.Join(want, "|") {
		t.Errorf("Sources = %q, want %q", a.Sources, want)
	}
	if !strings.Contains(a.Context, "Source: tax\nContent: two\n\n") {
		t.Errorf("unknown URL should omit the parenthetical, got:\n%s", a.Context)
	}
	if len(a.Used) != 3 {
		t.Errorf("Used = %d, want 3 (duplicate citations still count as used chunks)", len(a.Used))
	}
}

func TestAssemble_Empty(t *testing.T) {
	a := Assemble(nil, 3500)
	if a.Context != "" || len(a.Used) != 0 || a.Sources == nil || len(a.Sources) != 0 {
		t.Errorf("Assemble(nil) = %+v, want empty context, no used chunks, empty non-nil sources", a)
	}
}
