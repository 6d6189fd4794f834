package wikitext

// Kind classifies a Node into the vocabulary consumers dispatch on.
type Kind int

const (
	KindOther Kind = iota
	KindCharacterEntity
	KindExternalLink
	KindHeading
	KindHorizontalDivider
	KindLink
	KindOrderedList
	KindParagraphBreak
	KindText
	KindTemplate
	KindUnorderedList
)

var kindNames = [...]string{
	KindOther:             "other",
	KindCharacterEntity:   "character_entity",
	KindExternalLink:      "external_link",
	KindHeading:           "heading",
	KindHorizontalDivider: "horizontal_divider",
	KindLink:              "link",
	KindOrderedList:       "ordered_list",
	KindParagraphBreak:    "paragraph_break",
	KindText:              "text",
	KindTemplate:          "template",
	KindUnorderedList:     "unordered_list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Span is a byte range within the parsed source.
type Span struct {
	Start int
	End   int
}

func (s Span) span() Span { return s }

// Node is one element of a parsed wikitext tree.
type Node interface {
	Kind() Kind
	span() Span
}

// NodeSpan returns the source byte range a node was parsed from.
func NodeSpan(n Node) Span { return n.span() }

// Result is the output of Parse.
type Result struct {
	Nodes    []Node
	Warnings []Warning
}

// Warning is a non-fatal problem found while parsing.
type Warning struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Message string `json:"message"`
}

type (
	CharacterEntity struct {
		Span
		Character rune
	}

	// ExternalLink holds the whole bracketed content, URL included.
	ExternalLink struct {
		Span
		Nodes []Node
	}

	Heading struct {
		Span
		Level int
		Nodes []Node
	}

	HorizontalDivider struct {
		Span
	}

	Link struct {
		Span
		Target string
		Text   []Node
	}

	ListItem struct {
		Span
		Nodes []Node
	}

	OrderedList struct {
		Span
		Items []ListItem
	}

	UnorderedList struct {
		Span
		Items []ListItem
	}

	ParagraphBreak struct {
		Span
	}

	Text struct {
		Span
		Value string
	}

	Template struct {
		Span
		Name       []Node
		Parameters []Parameter
	}

	// Parameter is a template argument. Name is nil for positional arguments.
	Parameter struct {
		Span
		Name  []Node
		Value []Node
	}
)

func (CharacterEntity) Kind() Kind   { return KindCharacterEntity }
func (ExternalLink) Kind() Kind      { return KindExternalLink }
func (Heading) Kind() Kind           { return KindHeading }
func (HorizontalDivider) Kind() Kind { return KindHorizontalDivider }
func (Link) Kind() Kind              { return KindLink }
func (OrderedList) Kind() Kind       { return KindOrderedList }
func (UnorderedList) Kind() Kind     { return KindUnorderedList }
func (ParagraphBreak) Kind() Kind    { return KindParagraphBreak }
func (Text) Kind() Kind              { return KindText }
func (Template) Kind() Kind          { return KindTemplate }

// Constructs recognized so they can be skipped as a whole. All classify as
// KindOther.
type (
	Bold       struct{ Span }
	Italic     struct{ Span }
	BoldItalic struct{ Span }
	Comment    struct{ Span }
	MagicWord  struct {
		Span
		Name string
	}

	// Tag is an extension tag such as <ref> or <math>, content included.
	Tag struct {
		Span
		Name string
	}

	StartTag struct {
		Span
		Name string
	}

	EndTag struct {
		Span
		Name string
	}

	Image struct {
		Span
		Target string
	}

	Category struct {
		Span
		Target string
	}

	Table struct{ Span }

	DefinitionList struct {
		Span
		Items []ListItem
	}

	Preformatted struct {
		Span
		Nodes []Node
	}

	Redirect struct {
		Span
		Target string
	}

	TemplateParameter struct {
		Span
		Name    []Node
		Default []Node
	}
)

func (Bold) Kind() Kind              { return KindOther }
func (Italic) Kind() Kind            { return KindOther }
func (BoldItalic) Kind() Kind        { return KindOther }
func (Comment) Kind() Kind           { return KindOther }
func (MagicWord) Kind() Kind         { return KindOther }
func (Tag) Kind() Kind               { return KindOther }
func (StartTag) Kind() Kind          { return KindOther }
func (EndTag) Kind() Kind            { return KindOther }
func (Image) Kind() Kind             { return KindOther }
func (Category) Kind() Kind          { return KindOther }
func (Table) Kind() Kind             { return KindOther }
func (DefinitionList) Kind() Kind    { return KindOther }
func (Preformatted) Kind() Kind      { return KindOther }
func (Redirect) Kind() Kind          { return KindOther }
func (TemplateParameter) Kind() Kind { return KindOther }
