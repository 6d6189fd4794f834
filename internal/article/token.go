package article

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenKind distinguishes guessable words from the text between them.
type TokenKind int

const (
	Word TokenKind = iota
	NonWord
)

func (k TokenKind) String() string {
	switch k {
	case Word:
		return "word"
	case NonWord:
		return "non_word"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TokenKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "word":
		*k = Word
	case "non_word":
		*k = NonWord
	default:
		return fmt.Errorf("unknown token kind %q", b)
	}
	return nil
}

// Token is a maximal run of alphanumeric (Word) or other (NonWord)
// characters.
type Token struct {
	Kind TokenKind `json:"kind"`
	Text string    `json:"text"`
}

// IsAlphanumeric reports whether r belongs to a word.
func IsAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}

// Tokenize splits s into alternating Word and NonWord runs. Concatenating
// the token texts gives back s exactly.
func Tokenize(s string) []Token {
	var tokens []Token
	i := 0

	// A leading NonWord is optional; after it the runs strictly alternate.
	if end := scanRun(s, i, false); end > i {
		tokens = append(tokens, Token{Kind: NonWord, Text: s[i:end]})
		i = end
	}

	for i < len(s) {
		end := scanRun(s, i, true)
		if end == i {
			panic(fmt.Sprintf("article: empty word run at offset %d", i))
		}
		tokens = append(tokens, Token{Kind: Word, Text: s[i:end]})
		i = end
		if i == len(s) {
			break
		}

		end = scanRun(s, i, false)
		if end == i {
			panic(fmt.Sprintf("article: empty non-word run at offset %d", i))
		}
		tokens = append(tokens, Token{Kind: NonWord, Text: s[i:end]})
		i = end
	}
	return tokens
}

// scanRun returns the end of the run starting at i whose characters all
// have the given alphanumeric class. Invalid bytes count as non-alphanumeric.
func scanRun(s string, i int, alnum bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			if alnum {
				break
			}
		} else if IsAlphanumeric(r) != alnum {
			break
		}
		i += size
	}
	return i
}

// JoinTokens concatenates token texts.
func JoinTokens(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}
