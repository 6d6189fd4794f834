// Package article turns wikitext into a tokenized document: a title and a
// tree of headings, paragraphs and lists.
//
// Everything here is pure. Parse has no shared state and may be called
// from any number of goroutines.
package article

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/wikiguess/internal/wikitext"
)

// SectionKind identifies the variant held by a Section.
type SectionKind int

const (
	Heading SectionKind = iota
	Paragraph
	UnorderedList
	OrderedList
)

var sectionKindNames = [...]string{
	Heading:       "heading",
	Paragraph:     "paragraph",
	UnorderedList: "unordered_list",
	OrderedList:   "ordered_list",
}

func (k SectionKind) String() string {
	if k < 0 || int(k) >= len(sectionKindNames) {
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
	return sectionKindNames[k]
}

func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SectionKind) UnmarshalText(b []byte) error {
	for i, name := range sectionKindNames {
		if name == string(b) {
			*k = SectionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown section kind %q", b)
}

// Section is one block of an article.
//
// Heading uses Level and Tokens, Paragraph uses Tokens, and the list kinds
// use Items, where every item is its own sequence of sections.
type Section struct {
	Kind   SectionKind `json:"kind"`
	Level  int         `json:"level,omitempty"`
	Tokens []Token     `json:"tokens,omitempty"`
	Items  [][]Section `json:"items,omitempty"`
}

// WikiArticle is a parsed article.
type WikiArticle struct {
	Title   []Token   `json:"title"`
	Content []Section `json:"content"`
}

// WarningFunc receives non-fatal markup warnings.
type WarningFunc func(wikitext.Warning)

// LogWarnings returns a WarningFunc that logs each warning at warn level.
func LogWarnings(log *slog.Logger) WarningFunc {
	return func(w wikitext.Warning) {
		log.Warn("wikitext warning", "start", w.Start, "end", w.End, "message", w.Message)
	}
}

// Parse builds an article from a plain-text title and wikitext content.
// Markup warnings go to onWarning, which may be nil. Parse never fails.
func Parse(title, content string, onWarning WarningFunc) *WikiArticle {
	res := wikitext.Parse(content)
	if onWarning != nil {
		for _, w := range res.Warnings {
			onWarning(w)
		}
	}

	return &WikiArticle{
		Title:   Tokenize(title),
		Content: Segment(res.Nodes),
	}
}
