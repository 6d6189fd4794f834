// Package game runs guess-the-article games over parsed articles.
//
// Every word of an article starts hidden. Players guess words; a guess
// reveals each occurrence, compared without regard to case. A game is
// solved once every word of the title has been guessed.
package game

import (
	"golang.org/x/text/cases"

	"github.com/dgallion1/wikiguess/internal/article"
)

// Fold returns the case-folded form of a word, used for all comparisons.
func Fold(word string) string {
	return cases.Fold().String(word)
}

// Count returns how many Word tokens of the title and content match word.
func Count(a *article.WikiArticle, word string) int {
	want := Fold(word)
	n := countTokens(a.Title, want)
	n += countSections(a.Content, want)
	return n
}

func countTokens(tokens []article.Token, folded string) int {
	n := 0
	for _, t := range tokens {
		if t.Kind == article.Word && Fold(t.Text) == folded {
			n++
		}
	}
	return n
}

func countSections(sections []article.Section, folded string) int {
	n := 0
	for _, s := range sections {
		n += countTokens(s.Tokens, folded)
		for _, item := range s.Items {
			n += countSections(item, folded)
		}
	}
	return n
}
