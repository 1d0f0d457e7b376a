package content

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Class-based output; the frontend stylesheet owns the palette, so the
// rendered HTML carries no inline colors and restyling needs no reprocess.
var highlightFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

var highlightStyle = styles.Get("github")

// Highlight renders code as HTML token spans. Unknown languages tokenize
// through the fallback lexer, and a tokenizer failure degrades to escaped
// plain text rather than failing the render.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var sb strings.Builder
	if err := highlightFormatter.Format(&sb, highlightStyle, iterator); err != nil {
		return html.EscapeString(code)
	}
	return sb.String()
}
