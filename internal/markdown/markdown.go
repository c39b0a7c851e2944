// Package markdown turns markdown documents into the plain text handed to
// backends, so markup characters are neither translated nor spoken.
package markdown

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// PlainText renders src without markup. Block elements are separated by a
// blank line; raw HTML is dropped.
func PlainText(src []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse(src, p)

	var sb strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			sb.Write(n.Literal)
		case *ast.Code:
			sb.Write(n.Literal)
		case *ast.CodeBlock:
			sb.Write(n.Literal)
			sb.WriteString("\n\n")
		case *ast.Softbreak, *ast.Hardbreak:
			sb.WriteByte('\n')
		case *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if !entering {
				sb.WriteString("\n\n")
			}
		}
		return ast.GoToNext
	})

	return strings.TrimSpace(blankRuns.ReplaceAllString(sb.String(), "\n\n"))
}
