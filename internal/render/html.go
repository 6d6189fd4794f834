package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/wikiguess/internal/article"
)

// HTML renders an article as an HTML fragment by converting its Markdown
// form. Raw HTML is never emitted.
func HTML(a *article.WikiArticle) ([]byte, error) {
	md := goldmark.New(goldmark.WithRendererOptions(html.WithXHTML()))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(a)), &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
