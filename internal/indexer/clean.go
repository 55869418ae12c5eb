package indexer

import (
	"regexp"
	"strings"
)

var (
	// Applied in order, so "&amp;lt;" decodes to "<".
	entities = [][2]string{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#x27;", "'"},
		{"&apos;", "'"},
	}

	blankLinesRe    = regexp.MustCompile(`\n\s*\n`)
	whitespaceRe    = regexp.MustCompile(`[\s\p{Z}]+`)
	repeatedDotRe   = regexp.MustCompile(`\.{2,}`)
	repeatedBangRe  = regexp.MustCompile(`[!?]{2,}`)
	repeatedPunctRe = regexp.MustCompile(`[,;\-]{2,}`)
	disallowedRe    = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?;:"'\-()\[\]]`)
)

// CleanText normalizes raw document text before splitting. Entities are
// decoded, whitespace is collapsed to single spaces, runs of punctuation are
// shortened and everything outside a small ASCII set is removed.
func CleanText(text string) string {
	for _, e := range entities {
		text = strings.ReplaceAll(text, e[0], e[1])
	}

	text = blankLinesRe.ReplaceAllString(text, "\n")
	text = whitespaceRe.ReplaceAllString(text, " ")

	text = repeatedDotRe.ReplaceAllString(text, ".")
	text = repeatedBangRe.ReplaceAllString(text, "!")
	text = repeatedPunctRe.ReplaceAllString(text, ",")

	text = disallowedRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
