package article

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{"empty", "", nil},
		{"single word", "hello", []Token{{Word, "hello"}}},
		{"only punctuation", " ...!? ", []Token{{NonWord, " ...!? "}}},
		{
			"leading non-word",
			"  Hello, world!",
			[]Token{{NonWord, "  "}, {Word, "Hello"}, {NonWord, ", "}, {Word, "world"}, {NonWord, "!"}},
		},
		{
			"starts with word",
			"Paris is 2nd",
			[]Token{{Word, "Paris"}, {NonWord, " "}, {Word, "is"}, {NonWord, " "}, {Word, "2nd"}},
		},
		{
			"unicode letters",
			"Zürich–Москва",
			[]Token{{Word, "Zürich"}, {NonWord, "–"}, {Word, "Москва"}},
		},
		{
			"accented letters",
			"naïve café",
			[]Token{{Word, "naïve"}, {NonWord, " "}, {Word, "café"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func checkTokens(t *testing.T, s string, tokens []Token) {
	t.Helper()
	require.Equal(t, s, JoinTokens(tokens), "round trip")
	for i, tok := range tokens {
		require.NotEmpty(t, tok.Text, "token %d is empty", i)
		if i > 0 {
			require.NotEqual(t, tokens[i-1].Kind, tok.Kind, "tokens %d and %d share a kind", i-1, i)
		}
		for _, r := range tok.Text {
			if tok.Kind == Word {
				require.True(t, IsAlphanumeric(r), "word %q holds %q", tok.Text, r)
			} else if r != '�' {
				require.False(t, IsAlphanumeric(r), "non-word %q holds %q", tok.Text, r)
			}
		}
	}
}

func TestTokenize_InvalidUTF8RoundTrips(t *testing.T) {
	s := "ab\xffcd\xc3"
	tokens := Tokenize(s)
	checkTokens(t, s, tokens)
	assert.Equal(t, []Token{{Word, "ab"}, {NonWord, "\xff"}, {Word, "cd"}, {NonWord, "\xc3"}}, tokens)
}

func FuzzTokenize(f *testing.F) {
	for _, seed := range []string{
		"",
		"word",
		"  leading space",
		"trailing punctuation...",
		"Mixed 123 numbers, and — dashes",
		"日本語のテキスト。",
		"\xff\xfe",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		checkTokens(t, s, Tokenize(s))
	})
}

func TestToken_JSON(t *testing.T) {
	b, err := json.Marshal([]Token{{Word, "a"}, {NonWord, " "}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"word","text":"a"},{"kind":"non_word","text":" "}]`, string(b))

	var back []Token
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Token{{Word, "a"}, {NonWord, " "}}, back)
}
