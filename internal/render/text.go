package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/wikiguess/internal/article"
)

// Text renders an article as plain text. Headings are wrapped in '=' marks
// per level and list items are indented under their markers.
func Text(a *article.WikiArticle) string {
	var sb strings.Builder
	if title := article.JoinTokens(a.Title); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	writeTextSections(&sb, a.Content)
	return finish(sb.String())
}

func writeTextSections(sb *strings.Builder, sections []article.Section) {
	for _, s := range sections {
		switch s.Kind {
		case article.Heading:
			mark := strings.Repeat("=", max(s.Level, 1))
			sb.WriteString(mark + " " + article.JoinTokens(s.Tokens) + " " + mark + "\n\n")
		case article.Paragraph:
			sb.WriteString(article.JoinTokens(s.Tokens) + "\n\n")
		case article.UnorderedList, article.OrderedList:
			writeTextList(sb, s, "")
			sb.WriteString("\n")
		}
	}
}

func writeTextList(sb *strings.Builder, list article.Section, indent string) {
	for i, item := range list.Items {
		marker := "* "
		if list.Kind == article.OrderedList {
			marker = strconv.Itoa(i+1) + ". "
		}
		sb.WriteString(indent + marker)

		rest := item
		if len(item) > 0 && len(item[0].Tokens) > 0 {
			sb.WriteString(article.JoinTokens(item[0].Tokens))
			rest = item[1:]
		}
		sb.WriteString("\n")

		child := indent + strings.Repeat(" ", len(marker))
		for _, s := range rest {
			switch s.Kind {
			case article.UnorderedList, article.OrderedList:
				writeTextList(sb, s, child)
			default:
				sb.WriteString(child + article.JoinTokens(s.Tokens) + "\n")
			}
		}
	}
}
