package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightGo(t *testing.T) {
	out := Highlight(`if x := "a"; x != "" { return 42 }`, "go")

	assert.Contains(t, out, `<span class="k">if</span>`)
	assert.Contains(t, out, `<span class="k">return</span>`)
	assert.Contains(t, out, `class="s"`, "string literal gets a token span")
	assert.Contains(t, out, `class="mi"`, "integer literal gets a token span")
}

func TestHighlightPythonComment(t *testing.T) {
	out := Highlight("# setup\nx = 1", "python")

	assert.Contains(t, out, `class="c1"`)
	assert.Contains(t, out, "# setup")
}

func TestHighlightSQLKeywords(t *testing.T) {
	out := Highlight("SELECT id FROM posts", "sql")

	assert.Contains(t, out, `<span class="k">SELECT</span>`)
	assert.Contains(t, out, `<span class="k">FROM</span>`)
}

func TestHighlightEscapesHTML(t *testing.T) {
	out := Highlight(`<script>alert("x")</script>`, "javascript")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script")
}

func TestHighlightUnknownLanguageFallsBack(t *testing.T) {
	out := Highlight("return <value>", "no-such-language")

	assert.Contains(t, out, "return")
	assert.Contains(t, out, "&lt;value&gt;", "fallback output is still escaped")
}

func TestHighlightDeterministic(t *testing.T) {
	code := "x := 1 // counter"
	first := Highlight(code, "go")
	assert.Equal(t, first, Highlight(code, "go"))
	assert.True(t, strings.Contains(first, "<span"), "go source must tokenize into spans")
}
