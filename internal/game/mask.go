package game

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/wikiguess/internal/article"
)

// MaskRune replaces each rune of a hidden word.
const MaskRune = '_'

// Mask returns a copy of a in which every Word token that revealed rejects
// is replaced by one MaskRune per rune. Structure and NonWord tokens are
// kept. a is not modified.
func Mask(a *article.WikiArticle, revealed func(word string) bool) *article.WikiArticle {
	return &article.WikiArticle{
		Title:   maskTokens(a.Title, revealed),
		Content: maskSections(a.Content, revealed),
	}
}

func maskTokens(tokens []article.Token, revealed func(string) bool) []article.Token {
	if tokens == nil {
		return nil
	}
	out := make([]article.Token, len(tokens))
	for i, t := range tokens {
		if t.Kind == article.Word && !revealed(t.Text) {
			t.Text = strings.Repeat(string(MaskRune), utf8.RuneCountInString(t.Text))
		}
		out[i] = t
	}
	return out
}

func maskSections(sections []article.Section, revealed func(string) bool) []article.Section {
	if sections == nil {
		return nil
	}
	out := make([]article.Section, len(sections))
	for i, s := range sections {
		masked := article.Section{
			Kind:   s.Kind,
			Level:  s.Level,
			Tokens: maskTokens(s.Tokens, revealed),
		}
		if s.Items != nil {
			masked.Items = make([][]article.Section, len(s.Items))
			for j, item := range s.Items {
				masked.Items[j] = maskSections(item, revealed)
			}
		}
		out[i] = masked
	}
	return out
}
