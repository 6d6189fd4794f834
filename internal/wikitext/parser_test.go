package wikitext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(nodes []Node) []Kind {
	out := make([]Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

// plain concatenates the text values of nodes, descending into links.
func plain(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(n.Value)
		case Link:
			sb.WriteString(plain(n.Text))
		case CharacterEntity:
			sb.WriteRune(n.Character)
		}
	}
	return sb.String()
}

func TestParse_ParagraphsAndBreaks(t *testing.T) {
	res := Parse("First line\nsecond line.\n\n\nNext paragraph.")
	require.Empty(t, res.Warnings)
	require.Equal(t, []Kind{KindText, KindParagraphBreak, KindText}, kinds(res.Nodes))
	assert.Equal(t, "First line\nsecond line.\n", res.Nodes[0].(Text).Value)
	assert.Equal(t, "Next paragraph.", res.Nodes[2].(Text).Value)
}

func TestParse_EmptyInput(t *testing.T) {
	res := Parse("")
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Warnings)
}

func TestParse_Headings(t *testing.T) {
	res := Parse("== History ==\nText.\n=== Early [[life]] ===\n")
	require.Equal(t, []Kind{KindHeading, KindText, KindHeading}, kinds(res.Nodes))

	h2 := res.Nodes[0].(Heading)
	assert.Equal(t, 2, h2.Level)
	assert.Equal(t, "History", plain(h2.Nodes))

	h3 := res.Nodes[2].(Heading)
	assert.Equal(t, 3, h3.Level)
	assert.Equal(t, "Early life", plain(h3.Nodes))
}

func TestParse_UnbalancedHeadingUsesShorterSide(t *testing.T) {
	res := Parse("=== Title ==\n")
	require.Len(t, res.Nodes, 1)
	h := res.Nodes[0].(Heading)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, "= Title", plain(h.Nodes))
}

func TestParse_HorizontalDivider(t *testing.T) {
	res := Parse("above\n----\nbelow")
	assert.Equal(t, []Kind{KindText, KindHorizontalDivider, KindText}, kinds(res.Nodes))
}

func TestParse_Template(t *testing.T) {
	res := Parse("{{cite web | title = The Title | url=http://x.org |extra}}")
	require.Len(t, res.Nodes, 1)
	tmpl, ok := res.Nodes[0].(Template)
	require.True(t, ok)

	assert.Equal(t, "cite web", plain(tmpl.Name))
	require.Len(t, tmpl.Parameters, 3)

	assert.Equal(t, "title", plain(tmpl.Parameters[0].Name))
	assert.Equal(t, "The Title", plain(tmpl.Parameters[0].Value))
	assert.Equal(t, "url", plain(tmpl.Parameters[1].Name))
	assert.Nil(t, tmpl.Parameters[2].Name)
	assert.Equal(t, "extra", plain(tmpl.Parameters[2].Value))
}

func TestParse_TemplateSpansLinesAndNests(t *testing.T) {
	src := "{{Infobox\n| name = {{lang|fr|Paris}}\n| size = 5\n}}\nParis is a city."
	res := Parse(src)
	require.Equal(t, []Kind{KindTemplate, KindText}, kinds(res.Nodes))

	tmpl := res.Nodes[0].(Template)
	assert.Equal(t, "Infobox", plain(tmpl.Name))
	require.Len(t, tmpl.Parameters, 2)
	require.Len(t, tmpl.Parameters[0].Value, 1)
	inner, ok := tmpl.Parameters[0].Value[0].(Template)
	require.True(t, ok)
	assert.Equal(t, "lang", plain(inner.Name))
	assert.Equal(t, "\nParis is a city.", res.Nodes[1].(Text).Value)
}

func TestParse_PositionalValuesKeepWhitespace(t *testing.T) {
	res := Parse("{{x| a |b}}")
	tmpl := res.Nodes[0].(Template)
	assert.Equal(t, " a ", plain(tmpl.Parameters[0].Value))
}

func TestParse_UnterminatedTemplateIsText(t *testing.T) {
	res := Parse("before {{broken|x and after")
	require.Equal(t, []Kind{KindText}, kinds(res.Nodes))
	assert.Equal(t, "before {{broken|x and after", res.Nodes[0].(Text).Value)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "unterminated template")
	assert.Equal(t, 7, res.Warnings[0].Start)
}

func TestParse_Links(t *testing.T) {
	res := Parse("A [[Dog|hound]] and [[cat]]s.")
	require.Equal(t, []Kind{KindText, KindLink, KindText, KindLink, KindText}, kinds(res.Nodes))

	dog := res.Nodes[1].(Link)
	assert.Equal(t, "Dog", dog.Target)
	assert.Equal(t, "hound", plain(dog.Text))

	cat := res.Nodes[3].(Link)
	assert.Equal(t, "cat", cat.Target)
	assert.Equal(t, "cats", plain(cat.Text))
}

func TestParse_FileAndCategoryLinksAreOther(t *testing.T) {
	res := Parse("[[File:Dog.jpg|thumb|A [[dog]] sitting]]text[[Category:Dogs]]")
	require.Equal(t, []Kind{KindOther, KindText, KindOther}, kinds(res.Nodes))
	assert.IsType(t, Image{}, res.Nodes[0])
	assert.IsType(t, Category{}, res.Nodes[2])
}

func TestParse_ExternalLink(t *testing.T) {
	res := Parse("See [https://example.org the site] now")
	require.Equal(t, []Kind{KindText, KindExternalLink, KindText}, kinds(res.Nodes))
	ext := res.Nodes[1].(ExternalLink)
	assert.Equal(t, "https://example.org the site", plain(ext.Nodes))
}

func TestParse_BracketWithoutURLIsText(t *testing.T) {
	res := Parse("[not a link]")
	require.Equal(t, []Kind{KindText}, kinds(res.Nodes))
	assert.Empty(t, res.Warnings)
}

func TestParse_CharacterEntities(t *testing.T) {
	res := Parse("a&nbsp;b &amp; &#8211; &bogus;")
	var ents []rune
	for _, n := range res.Nodes {
		if e, ok := n.(CharacterEntity); ok {
			ents = append(ents, e.Character)
		}
	}
	assert.Equal(t, []rune{'\u00a0', '&', '–'}, ents)
	assert.Equal(t, "a\u00a0b & – &bogus;", plain(res.Nodes))
}

func TestParse_TagsAndComments(t *testing.T) {
	res := Parse(`Fact.<ref name="a">{{cite book|title=X}}</ref> more<!-- hidden --> <span class="x">kept</span><br/>`)
	var text strings.Builder
	for _, n := range res.Nodes {
		if t, ok := n.(Text); ok {
			text.WriteString(t.Value)
		}
	}
	assert.Equal(t, "Fact. more kept", text.String())
	assert.IsType(t, Tag{}, res.Nodes[1])
	assert.Equal(t, "ref", res.Nodes[1].(Tag).Name)
}

func TestParse_NowikiIsLiteral(t *testing.T) {
	res := Parse("<nowiki>[[not a link]]</nowiki>")
	require.Equal(t, []Kind{KindText}, kinds(res.Nodes))
	assert.Equal(t, "[[not a link]]", res.Nodes[0].(Text).Value)
}

func TestParse_ReferencesDoNotCloseRef(t *testing.T) {
	res := Parse("<ref>a</references>b</ref>c")
	require.Equal(t, []Kind{KindOther, KindText}, kinds(res.Nodes))
	assert.Equal(t, "c", res.Nodes[1].(Text).Value)
}

func TestParse_EmphasisMarkersAreOther(t *testing.T) {
	res := Parse("'''Bold''' and ''italic''")
	assert.Equal(t, "Bold and italic", plain(res.Nodes))
	assert.IsType(t, Bold{}, res.Nodes[0])
}

func TestParse_NestedLists(t *testing.T) {
	res := Parse("* one\n* two\n*# two.a\n*# two.b\n* three\ntail")
	require.Equal(t, []Kind{KindUnorderedList, KindText}, kinds(res.Nodes))

	list := res.Nodes[0].(UnorderedList)
	require.Len(t, list.Items, 3)
	assert.Equal(t, " one", plain(list.Items[0].Nodes))

	two := list.Items[1].Nodes
	require.Equal(t, []Kind{KindText, KindOrderedList}, kinds(two))
	nested := two[1].(OrderedList)
	require.Len(t, nested.Items, 2)
	assert.Equal(t, " two.b", plain(nested.Items[1].Nodes))

	assert.Equal(t, " three", plain(list.Items[2].Nodes))
}

func TestParse_MarkerChangeStartsNewList(t *testing.T) {
	res := Parse("* a\n# b\n")
	assert.Equal(t, []Kind{KindUnorderedList, KindOrderedList}, kinds(res.Nodes))
}

func TestParse_ListClampsDepth(t *testing.T) {
	src := strings.Repeat("*", MaxListDepth+10) + " deep\n"
	res := Parse(src)
	require.Len(t, res.Nodes, 1)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "list nested too deeply", res.Warnings[0].Message)

	depth := 0
	var n Node = res.Nodes[0]
	for {
		list, ok := n.(UnorderedList)
		if !ok {
			break
		}
		depth++
		item := list.Items[len(list.Items)-1]
		n = item.Nodes[len(item.Nodes)-1]
	}
	assert.Equal(t, MaxListDepth, depth)
}

func TestParse_DeepTemplateNestingDegrades(t *testing.T) {
	depth := MaxInlineDepth + 5
	src := strings.Repeat("{{a|", depth) + "x" + strings.Repeat("}}", depth)
	res := Parse(src)
	require.NotEmpty(t, res.Nodes)
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w.Message, "nested too deeply") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParse_ManyUnterminatedOpenersFinish(t *testing.T) {
	src := strings.Repeat("{{ [[a ", 2000)
	res := Parse(src)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, src, res.Nodes[0].(Text).Value)
}

func TestParse_ManyUnterminatedTagsFinish(t *testing.T) {
	const n = 100000
	res := Parse(strings.Repeat("<ref>x ", n))
	require.Len(t, res.Nodes, 2*n)
	assert.Len(t, res.Warnings, n)
	assert.Equal(t, Tag{Span: Span{0, 5}, Name: "ref"}, res.Nodes[0])
	assert.Equal(t, "unterminated <ref>", res.Warnings[n-1].Message)
}

func TestParse_ClosingTagSearch(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		kinds []Kind
		text  string
	}{
		{"case-insensitive close", "<REF>a</Ref> b", []Kind{KindOther, KindText}, " b"},
		{"longer tag name skipped", "<ref>a</references> b</ref> c", []Kind{KindOther, KindText}, " c"},
		{"repeated closed tags", "<ref>a</ref> b <ref>c</ref> d", []Kind{KindOther, KindText, KindOther, KindText}, " b  d"},
		{"one close after many opens", strings.Repeat("<ref>x ", 50) + "</ref> end", []Kind{KindOther, KindText}, " end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.in)
			assert.Equal(t, tt.kinds, kinds(res.Nodes))
			assert.Equal(t, tt.text, plain(res.Nodes))
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestParse_TablesAndDefinitionLists(t *testing.T) {
	res := Parse("{| class=wikitable\n|-\n|\n{|\n| inner\n|}\n| cell\n|}\n; term\n: definition\nafter")
	require.Equal(t, []Kind{KindOther, KindOther, KindText}, kinds(res.Nodes))
	assert.IsType(t, Table{}, res.Nodes[0])
	dl := res.Nodes[1].(DefinitionList)
	assert.Len(t, dl.Items, 2)
	assert.Equal(t, "after", res.Nodes[2].(Text).Value)
}

func TestParse_Redirect(t *testing.T) {
	res := Parse("#REDIRECT [[Target page]]\n")
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "Target page", res.Nodes[0].(Redirect).Target)
}

func TestParse_TemplateParameterAndMagicWord(t *testing.T) {
	res := Parse("__NOTOC__{{{1|default}}}")
	assert.Equal(t, []Kind{KindOther, KindOther}, kinds(res.Nodes))
	assert.Equal(t, "NOTOC", res.Nodes[0].(MagicWord).Name)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "template", KindTemplate.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
