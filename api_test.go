package htmlcore

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojansen/htmlcore/dom"
	htmlerrors "github.com/arlojansen/htmlcore/errors"
)

func TestParseBasicHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTag  string
		wantText string
	}{
		{
			name:     "simple document",
			input:    "<html><body><p>Hello</p></body></html>",
			wantTag:  "html",
			wantText: "Hello",
		},
		{
			name:     "with DOCTYPE",
			input:    "<!DOCTYPE html><html><head><title>Test</title></head><body>Content</body></html>",
			wantTag:  "html",
			wantText: "TestContent",
		},
		{
			name:     "malformed HTML",
			input:    "<p>Unclosed paragraph<div>Content",
			wantTag:  "html",
			wantText: "Unclosed paragraphContent",
		},
		{
			name:     "empty string",
			input:    "",
			wantTag:  "html",
			wantText: "",
		},
		{
			name:     "just text",
			input:    "Plain text",
			wantTag:  "html",
			wantText: "Plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			require.NotNil(t, doc)

			root := doc.DocumentElement()
			require.NotNil(t, root)
			assert.Equal(t, tt.wantTag, root.TagName)
			assert.Equal(t, tt.wantText, extractAllText(doc))
		})
	}
}

func TestParseFragmentContext(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		context string
		wantLen int
		wantTag string
	}{
		{
			name:    "td in tr context",
			html:    "<td>Cell</td>",
			context: "tr",
			wantLen: 1,
			wantTag: "td",
		},
		{
			name:    "multiple elements",
			html:    "<li>Item 1</li><li>Item 2</li>",
			context: "ul",
			wantLen: 2,
			wantTag: "li",
		},
		{
			name:    "div context",
			html:    "<p>Paragraph</p><div>Div</div>",
			context: "div",
			wantLen: 2,
			wantTag: "p",
		},
		{
			name:    "empty fragment",
			html:    "",
			context: "div",
			wantLen: 0,
		},
		{
			name:    "text only",
			html:    "Just text",
			context: "div",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseFragment(tt.html, tt.context)
			require.NoError(t, err)
			assert.Len(t, nodes, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantTag, nodes[0].TagName)
			}
		})
	}
}

func TestParseWithOptions(t *testing.T) {
	t.Run("with strict mode on malformed input does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_, _ = Parse("<html><body><p>Test", WithStrictMode())
		})
	})

	t.Run("with collect errors still returns a document", func(t *testing.T) {
		doc, _ := Parse("<html><body><p>Test", WithCollectErrors())
		require.NotNil(t, doc)
	})

	t.Run("with iframe srcdoc", func(t *testing.T) {
		doc, err := Parse("<html><body>Test</body></html>", WithIframeSrcdoc())
		require.NoError(t, err)
		require.NotNil(t, doc)
	})

	t.Run("with XML coercion", func(t *testing.T) {
		doc, err := Parse("<html><body>Test</body></html>", WithXMLCoercion())
		require.NoError(t, err)
		require.NotNil(t, doc)
	})
}

func TestParseComplexHTML(t *testing.T) {
	html := `
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Test Page</title>
	<style>body { color: red; }</style>
	<script>console.log('test');</script>
</head>
<body>
	<header>
		<h1>Main Title</h1>
		<nav>
			<ul>
				<li><a href="/">Home</a></li>
				<li><a href="/about">About</a></li>
			</ul>
		</nav>
	</header>
	<main>
		<article>
			<h2>Article Title</h2>
			<p>First paragraph with <strong>bold</strong> and <em>italic</em>.</p>
			<p>Second paragraph.</p>
		</article>
	</main>
	<footer>
		<p>&copy; 2024 Test</p>
	</footer>
</body>
</html>`

	doc, err := Parse(html)
	require.NoError(t, err)
	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "html", doc.DocumentElement().TagName)

	t.Run("find by tag", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(doc.FindAll("p")), 3)
	})

	t.Run("find links", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(doc.FindAll("a")), 2)
	})

	t.Run("find first", func(t *testing.T) {
		h1 := doc.FindFirst("h1")
		require.NotNil(t, h1)
		assert.Equal(t, "h1", h1.TagName)
	})
}

func TestParseNestedStructures(t *testing.T) {
	html := "<div><div><div><div><div><p>Deep nesting</p></div></div></div></div></div>"

	doc, err := Parse(html)
	require.NoError(t, err)

	paragraphs := doc.FindAll("p")
	require.Len(t, paragraphs, 1)
	assert.Contains(t, paragraphs[0].Text(), "Deep nesting")
}

func TestParseSpecialElements(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		tagName string
		wantLen int
	}{
		{
			name:    "table",
			html:    "<table><thead><tr><th>H1</th></tr></thead><tbody><tr><td>D1</td></tr></tbody></table>",
			tagName: "td",
			wantLen: 1,
		},
		{
			name:    "form",
			html:    "<form><input type='text' name='field'><button>Submit</button></form>",
			tagName: "input",
			wantLen: 1,
		},
		{
			name:    "list",
			html:    "<ul><li>Item 1</li><li>Item 2</li><li>Item 3</li></ul>",
			tagName: "li",
			wantLen: 3,
		},
		{
			name:    "template",
			html:    "<template><div>Template content</div></template>",
			tagName: "template",
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.html)
			require.NoError(t, err)
			assert.Len(t, doc.FindAll(tt.tagName), tt.wantLen)
		})
	}
}

func TestParseSelfClosingTags(t *testing.T) {
	html := `<html><body>
		<img src="test.jpg" alt="Test">
		<br>
		<hr>
		<input type="text" name="field">
		<meta charset="UTF-8">
		<link rel="stylesheet" href="style.css">
	</body></html>`

	doc, err := Parse(html)
	require.NoError(t, err)

	for _, tag := range []string{"img", "br", "hr", "input"} {
		t.Run(tag, func(t *testing.T) {
			assert.GreaterOrEqual(t, len(doc.FindAll(tag)), 1)
		})
	}
}

func TestParseComments(t *testing.T) {
	html := `<html><body>
		<!-- This is a comment -->
		<p>Content</p>
		<!-- Another comment -->
	</body></html>`

	doc, err := Parse(html)
	require.NoError(t, err)
	require.NotNil(t, doc.DocumentElement())
}

func TestParseCDATA(t *testing.T) {
	html := `<html><body><script><![CDATA[
		var x = 1 < 2 && 3 > 2;
	]]></script></body></html>`

	doc, err := Parse(html)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(doc.FindAll("script")), 1)
}

func TestParseEntities(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantText string
	}{
		{
			name:     "named entities",
			html:     "<p>&lt;&gt;&amp;&quot;&#39;</p>",
			wantText: "<>&\"'",
		},
		{
			name:     "numeric entities",
			html:     "<p>&#60;&#62;&#38;</p>",
			wantText: "<>&",
		},
		{
			name:     "hex entities",
			html:     "<p>&#x3C;&#x3E;&#x26;</p>",
			wantText: "<>&",
		},
		{
			name:     "common entities",
			html:     "<p>&nbsp;&copy;&reg;&trade;</p>",
			wantText: " ©®™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.html)
			require.NoError(t, err)

			paragraphs := doc.FindAll("p")
			require.Len(t, paragraphs, 1)
			assert.Equal(t, tt.wantText, paragraphs[0].Text())
		})
	}
}

func TestParseAttributes(t *testing.T) {
	html := `<div id="main" class="container active" data-value="123" disabled></div>`

	doc, err := Parse(html)
	require.NoError(t, err)

	divs := doc.FindAll("div")
	require.Len(t, divs, 1)
	div := divs[0]

	tests := []struct {
		attr string
		want string
	}{
		{"id", "main"},
		{"class", "container active"},
		{"data-value", "123"},
		{"disabled", ""},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			assert.Equal(t, tt.want, div.Attr(tt.attr))
		})
	}

	assert.True(t, div.HasAttr("id"))
	assert.False(t, div.HasAttr("nonexistent"))
}

func TestParseErrorRecovery(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		tagName string
		want    int
	}{
		{
			name:    "unclosed tags",
			html:    "<p>Para 1<p>Para 2<p>Para 3",
			tagName: "p",
			want:    3,
		},
		{
			name:    "mismatched tags",
			html:    "<div><p>Text</div></p>",
			tagName: "div",
			want:    1,
		},
		{
			name:    "missing closing tags",
			html:    "<html><body><div><p>Content",
			tagName: "p",
			want:    1,
		},
		{
			name:    "invalid nesting",
			html:    "<p><div>Invalid</div></p>",
			tagName: "div",
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.html)
			if err != nil {
				t.Logf("Parse returned error (expected for malformed HTML): %v", err)
			}
			require.NotNil(t, doc, "parse must recover and still return a document")
			assert.Len(t, doc.FindAll(tt.tagName), tt.want)
		})
	}
}

func TestParseErrorCollection(t *testing.T) {
	html := "<html><body><p>Test</p></body>"

	doc, err := Parse(html, WithCollectErrors())
	require.NotNil(t, doc)

	if err != nil {
		var parseErrors htmlerrors.ParseErrors
		assert.True(t, errors.As(err, &parseErrors), "error type = %T, want htmlerrors.ParseErrors", err)
	}
}

func TestParseStrictMode(t *testing.T) {
	validHTML := "<!DOCTYPE html><html><head><title>Test</title></head><body><p>Content</p></body></html>"
	doc, err := Parse(validHTML, WithStrictMode())
	if err != nil {
		t.Logf("Strict mode returned error for valid HTML: %v", err)
	}
	require.NotNil(t, doc)
}

func extractAllText(node dom.Node) string {
	var sb strings.Builder
	extractTextHelper(node, &sb)
	return sb.String()
}

func extractTextHelper(node dom.Node, sb *strings.Builder) {
	switch n := node.(type) {
	case *dom.Text:
		sb.WriteString(n.Data)
	case *dom.Element:
		for _, child := range n.Children() {
			extractTextHelper(child, sb)
		}
	case *dom.Document:
		for _, child := range n.Children() {
			extractTextHelper(child, sb)
		}
	}
}
