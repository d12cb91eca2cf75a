package application

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const maxSnippetLength = 200

// BodyNormalizer makes sure a post body is HTML.
type BodyNormalizer struct {
	markdown goldmark.Markdown
}

func NewBodyNormalizer() *BodyNormalizer {
	return &BodyNormalizer{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
				html.WithUnsafe(),
			),
		),
	}
}

// Normalize returns body unchanged when it already contains HTML elements,
// otherwise treats it as Markdown and renders it.
func (n *BodyNormalizer) Normalize(body string) (string, error) {
	if strings.TrimSpace(body) == "" || containsHTML(body) {
		return body, nil
	}

	var buf bytes.Buffer
	if err := n.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown body to HTML: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func containsHTML(body string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}
	return doc.Find("body *").Length() > 0
}

// Snippet extracts a short plain-text preview from an HTML body.
func Snippet(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if utf8.RuneCountInString(text) <= maxSnippetLength {
		return text
	}

	runes := []rune(text)
	snippet := string(runes[:maxSnippetLength])
	if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
		snippet = snippet[:lastSpace]
	}
	return snippet + "..."
}
