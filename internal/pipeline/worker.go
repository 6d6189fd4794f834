package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/wikiguess/internal/article"
	"github.com/dgallion1/wikiguess/internal/game"
	"github.com/dgallion1/wikiguess/internal/wikipedia"
)

// Fetcher retrieves article wikitext.
type Fetcher interface {
	Article(ctx context.Context, lang, title string) (*wikipedia.Page, error)
	RandomTitle(ctx context.Context) (string, error)
}

// Worker loads a single article into a new game.
type Worker struct {
	fetcher Fetcher
	games   *game.Store
	log     *slog.Logger

	maxRetries      int
	maxContentBytes int64

	// delay is replaced in tests.
	delay func(err error, attempt int) time.Duration
}

func NewWorker(fetcher Fetcher, games *game.Store, log *slog.Logger, maxRetries int, maxContentBytes int64) *Worker {
	if maxRetries <= 0 {
		maxRetries = wikipedia.MaxRetries
	}
	return &Worker{
		fetcher:         fetcher,
		games:           games,
		log:             log,
		maxRetries:      maxRetries,
		maxContentBytes: maxContentBytes,
		delay:           wikipedia.RetryDelay,
	}
}

// Process fetches, parses and registers the game for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "lang", job.Lang)

	// Phase 1: Fetch
	job.SetStatus(StatusFetching, "fetching")
	title := job.Title
	if title == "" {
		var err error
		title, err = retry(ctx, w, job, log, "random title", func() (string, error) {
			return w.fetcher.RandomTitle(ctx)
		})
		if err != nil {
			w.fail(job, log, "fetching", fmt.Errorf("random title: %w", err))
			return
		}
		log.Info("picked random article", "title", title)
	}

	page, err := retry(ctx, w, job, log, "article", func() (*wikipedia.Page, error) {
		return w.fetcher.Article(ctx, job.Lang, title)
	})
	if err != nil {
		w.fail(job, log, "fetching", fmt.Errorf("fetch %q: %w", title, err))
		return
	}
	if w.maxContentBytes > 0 && int64(len(page.Wikitext)) > w.maxContentBytes {
		w.fail(job, log, "fetching", fmt.Errorf("article is %d bytes, limit is %d", len(page.Wikitext), w.maxContentBytes))
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	a := article.Parse(page.Title, page.Wikitext, article.LogWarnings(log))
	if !hasWord(a.Title) {
		w.fail(job, log, "parsing", fmt.Errorf("title %q has no words to guess", page.Title))
		return
	}
	if len(a.Content) == 0 {
		w.fail(job, log, "parsing", errors.New("article has no prose"))
		return
	}

	session := game.NewSession(job.Lang, page.Title, a)
	w.games.Put(session)
	job.Finish(session.ID)
	log.Info("game ready",
		"game_id", session.ID,
		"sections", len(a.Content),
		"bytes", len(page.Wikitext),
		"parse_ms", time.Since(start).Milliseconds(),
	)
}

func (w *Worker) fail(job *Job, log *slog.Logger, phase string, err error) {
	log.Error("load failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}

// retry runs fn until it succeeds, fails permanently or runs out of
// attempts, waiting between retryable failures as the server asks or
// with jittered backoff.
func retry[T any](ctx context.Context, w *Worker, job *Job, log *slog.Logger, what string, fn func() (T, error)) (T, error) {
	var v T
	var lastErr error
	for attempt := range w.maxRetries {
		job.IncrAttempts()
		v, lastErr = fn()
		if lastErr == nil || !wikipedia.IsRetryable(lastErr) || attempt == w.maxRetries-1 {
			break
		}
		log.Warn("retryable fetch error", "what", what, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.delay(lastErr, attempt)):
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
	return v, lastErr
}

func hasWord(tokens []article.Token) bool {
	for _, t := range tokens {
		if t.Kind == article.Word {
			return true
		}
	}
	return false
}
