package indexer

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "trims and collapses whitespace", in: "  \t padded \n  text\r\n ", want: "padded text"},
		{name: "blank lines collapse", in: "Section 1\n\n\n\nSection 2", want: "Section 1 Section 2"},
		{name: "repeated dots", in: "Section 1...The Act", want: "Section 1.The Act"},
		{name: "repeated exclamation and question marks", in: "What?!? Stop!!", want: "What! Stop!"},
		{name: "repeated commas semicolons dashes", in: "a,,b;;c--d", want: "a,b,c,d"},
		{name: "entities decoded then stripped", in: "A &amp; B &quot;quoted&quot; &#x27;s", want: `A  B "quoted" 's`},
		{name: "entities decode in order", in: "&amp;lt;tag&amp;gt;", want: "tag"},
		{name: "non-ASCII removed", in: "Fine of ₦500 — payable", want: "Fine of 500  payable"},
		{name: "allowed punctuation kept", in: `Section 2(1)[a]: "shall"; may - not?`, want: `Section 2(1)[a]: "shall"; may - not?`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
