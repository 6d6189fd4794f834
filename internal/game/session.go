package game

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/wikiguess/internal/article"
)

var (
	ErrEmptyGuess = errors.New("guess is empty")
	ErrNotAWord   = errors.New("guess must be a single word")
	ErrGameOver   = errors.New("game is over")
)

// GuessResult reports the outcome of one guess.
type GuessResult struct {
	Word           string `json:"word"`
	Occurrences    int    `json:"occurrences"`
	AlreadyGuessed bool   `json:"already_guessed"`
	Solved         bool   `json:"solved"`
}

// Session is a single game. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ID        string
	Lang      string
	PageTitle string
	CreatedAt time.Time

	article    *article.WikiArticle
	titleWords map[string]struct{}
	guesses    map[string]int
	order      []string
	solved     bool
	gaveUp     bool
	updatedAt  time.Time
}

// NewSession starts a game over a parsed article. pageTitle is the title
// the article was fetched under.
func NewSession(lang, pageTitle string, a *article.WikiArticle) *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Lang:       lang,
		PageTitle:  pageTitle,
		CreatedAt:  now,
		article:    a,
		titleWords: make(map[string]struct{}),
		guesses:    make(map[string]int),
		updatedAt:  now,
	}
	for _, t := range a.Title {
		if t.Kind == article.Word {
			s.titleWords[Fold(t.Text)] = struct{}{}
		}
	}
	return s
}

// Guess records a guess and reports how often the word occurs.
func (s *Session) Guess(word string) (GuessResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return GuessResult{}, ErrEmptyGuess
	}
	if toks := article.Tokenize(word); len(toks) != 1 || toks[0].Kind != article.Word {
		return GuessResult{}, ErrNotAWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solved || s.gaveUp {
		return GuessResult{}, ErrGameOver
	}
	s.updatedAt = time.Now()

	folded := Fold(word)
	if n, ok := s.guesses[folded]; ok {
		return GuessResult{Word: word, Occurrences: n, AlreadyGuessed: true}, nil
	}

	n := Count(s.article, word)
	s.guesses[folded] = n
	s.order = append(s.order, word)
	s.solved = s.titleGuessed()
	return GuessResult{Word: word, Occurrences: n, Solved: s.solved}, nil
}

// titleGuessed reports whether every title word has been guessed.
func (s *Session) titleGuessed() bool {
	for w := range s.titleWords {
		if _, ok := s.guesses[w]; !ok {
			return false
		}
	}
	return true
}

// Solved reports whether every word of the title has been guessed.
func (s *Session) Solved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solved
}

// GiveUp ends the game and returns the unmasked article.
func (s *Session) GiveUp() *article.WikiArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gaveUp = true
	s.updatedAt = time.Now()
	return s.article
}

// View returns the article as the player currently sees it. Once the game
// is over nothing is masked.
func (s *Session) View() *article.WikiArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solved || s.gaveUp {
		return s.article
	}
	return Mask(s.article, func(w string) bool {
		_, ok := s.guesses[Fold(w)]
		return ok
	})
}

// LastActive returns when the session was last changed.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Guess is a past guess as shown in a snapshot.
type Guess struct {
	Word        string `json:"word"`
	Occurrences int    `json:"occurrences"`
}

// SessionSnapshot is a read-only, JSON-safe copy of session state.
type SessionSnapshot struct {
	ID        string    `json:"game_id"`
	Lang      string    `json:"lang"`
	Title     string    `json:"title,omitempty"`
	Guesses   []Guess   `json:"guesses"`
	Solved    bool      `json:"solved"`
	GaveUp    bool      `json:"gave_up"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state. The page title is
// only included once the game is over.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	guesses := make([]Guess, 0, len(s.order))
	for _, w := range s.order {
		guesses = append(guesses, Guess{Word: w, Occurrences: s.guesses[Fold(w)]})
	}
	snap := SessionSnapshot{
		ID:        s.ID,
		Lang:      s.Lang,
		Guesses:   guesses,
		Solved:    s.solved,
		GaveUp:    s.gaveUp,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
	if s.solved || s.gaveUp {
		snap.Title = s.PageTitle
	}
	return snap
}
