package indexer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor reduces markdown documents to plain text.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a MarkdownExtractor that understands GFM tables.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract returns the text of content with markdown syntax removed. Block
// elements are separated by blank lines; table cells are joined with " | ".
func (e *MarkdownExtractor) Extract(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	doc := e.parser.Parser().Parse(text.NewReader(content))

	var b strings.Builder
	newBlock := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
			if strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			newBlock()
			b.WriteString(extractTextFromNode(node, content))
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			newBlock()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(content))
			}
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}

		kindName := n.Kind().String()
		if kindName == "TableRow" || kindName == "TableHeader" {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			b.WriteString(extractTableRowText(n, content))
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}
		if kindName == "Table" {
			newBlock()
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// extractTextFromNode concatenates the inline text below n.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteString("\n")
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		case *ast.AutoLink:
			textBuilder.Write(v.Label(content))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}

func extractTableRowText(row ast.Node, content []byte) string {
	var rowBuilder strings.Builder
	cellCount := 0

	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cellCount > 0 {
			rowBuilder.WriteString(" | ")
		}
		rowBuilder.WriteString(extractTextFromNode(cell, content))
		cellCount++
	}

	return rowBuilder.String()
}
