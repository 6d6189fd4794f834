package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/wikiguess/internal/article"
)

// Markdown renders an article as CommonMark. All ASCII punctuation in the
// text is backslash-escaped, so masked words stay underscores.
func Markdown(a *article.WikiArticle) string {
	var sb strings.Builder
	if title := mdText(a.Title); title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	for _, s := range a.Content {
		switch s.Kind {
		case article.Heading:
			level := min(max(s.Level, 1), 6)
			sb.WriteString(strings.Repeat("#", level) + " " + mdText(s.Tokens) + "\n\n")
		case article.Paragraph:
			sb.WriteString(mdText(s.Tokens) + "\n\n")
		case article.UnorderedList, article.OrderedList:
			writeMarkdownList(&sb, s, "")
			sb.WriteString("\n")
		}
	}
	return finish(sb.String())
}

func writeMarkdownList(sb *strings.Builder, list article.Section, indent string) {
	for i, item := range list.Items {
		marker := "- "
		if list.Kind == article.OrderedList {
			marker = strconv.Itoa(i+1) + ". "
		}
		sb.WriteString(indent + marker)

		rest := item
		if len(item) > 0 && len(item[0].Tokens) > 0 {
			sb.WriteString(mdText(item[0].Tokens))
			rest = item[1:]
		}
		sb.WriteString("\n")

		child := indent + strings.Repeat(" ", len(marker))
		for _, s := range rest {
			switch s.Kind {
			case article.UnorderedList, article.OrderedList:
				writeMarkdownList(sb, s, child)
			default:
				sb.WriteString(child + mdText(s.Tokens) + "\n")
			}
		}
	}
}

// mdText joins tokens into a single escaped line.
func mdText(tokens []article.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		for _, r := range t.Text {
			switch {
			case r == '\n' || r == '\r':
				sb.WriteByte(' ')
			case r < 0x80 && isASCIIPunct(byte(r)):
				sb.WriteByte('\\')
				sb.WriteRune(r)
			default:
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
