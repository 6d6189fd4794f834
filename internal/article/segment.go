package article

import (
	"strings"

	"github.com/dgallion1/wikiguess/internal/wikitext"
)

// MaxDepth bounds list nesting in Segment. It equals the grammar's own
// list limit, so parsed input never reaches it; it only guards node trees
// built by hand. Lists nested deeper are ignored.
const MaxDepth = wikitext.MaxListDepth

// Segment groups block-level nodes into sections. Inline content between
// block boundaries accumulates into paragraphs; list items are segmented
// recursively.
func Segment(nodes []wikitext.Node) []Section {
	return segment(nodes, 0)
}

func segment(nodes []wikitext.Node, depth int) []Section {
	var sections []Section
	var para strings.Builder

	flush := func() {
		text := strings.TrimSpace(para.String())
		if text != "" {
			sections = append(sections, Section{Kind: Paragraph, Tokens: Tokenize(text)})
		}
		para.Reset()
	}

	for _, n := range nodes {
		switch n.Kind() {
		case wikitext.KindHeading, wikitext.KindHorizontalDivider, wikitext.KindOrderedList,
			wikitext.KindParagraphBreak, wikitext.KindUnorderedList:
			flush()
		}

		switch n := n.(type) {
		case wikitext.CharacterEntity:
			para.WriteRune(n.Character)
		case wikitext.ExternalLink:
			// The first field is the URL.
			fields := strings.Fields(ResolveInline(n.Nodes))
			if len(fields) > 1 {
				para.WriteString(strings.Join(fields[1:], " "))
			}
		case wikitext.Heading:
			sections = append(sections, Section{
				Kind:   Heading,
				Level:  n.Level,
				Tokens: Tokenize(ResolveInline(n.Nodes)),
			})
		case wikitext.Link:
			para.WriteString(ResolveInline(n.Text))
		case wikitext.OrderedList:
			if depth < MaxDepth {
				sections = append(sections, Section{Kind: OrderedList, Items: segmentItems(n.Items, depth)})
			}
		case wikitext.UnorderedList:
			if depth < MaxDepth {
				sections = append(sections, Section{Kind: UnorderedList, Items: segmentItems(n.Items, depth)})
			}
		case wikitext.Template:
			para.WriteString(ResolveTemplate(n))
		case wikitext.Text:
			para.WriteString(n.Value)
		}
	}
	flush()

	return sections
}

func segmentItems(items []wikitext.ListItem, depth int) [][]Section {
	out := make([][]Section, 0, len(items))
	for _, item := range items {
		out = append(out, segment(item.Nodes, depth+1))
	}
	return out
}
