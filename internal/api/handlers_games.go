package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikiguess/internal/article"
	"github.com/dgallion1/wikiguess/internal/game"
	"github.com/dgallion1/wikiguess/internal/pipeline"
	"github.com/dgallion1/wikiguess/internal/render"
	"github.com/dgallion1/wikiguess/internal/wikipedia"
)

const maxSmallBody = 64 << 10

type createGameRequest struct {
	Title string `json:"title"`
	Lang  string `json:"lang"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if code, err := decodeBody(w, r, maxSmallBody, &req, true); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	title := strings.TrimSpace(req.Title)
	lang := strings.ToLower(strings.TrimSpace(req.Lang))
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	if !wikipedia.ValidLanguage(lang) {
		jsonError(w, fmt.Sprintf("invalid language %q", req.Lang), http.StatusBadRequest)
		return
	}
	if title == "" && lang != s.cfg.DefaultLanguage {
		jsonError(w, "random articles are only available in "+s.cfg.DefaultLanguage, http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(lang, title)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/games/jobs/%s/status", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// session looks up the game named in the URL, answering 404 when absent.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *game.Session {
	session := s.games.Get(chi.URLParam(r, "gameID"))
	if session == nil {
		jsonError(w, "game not found", http.StatusNotFound)
	}
	return session
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	session := s.session(w, r)
	if session == nil {
		return
	}
	view := session.View()
	s.writeArticle(w, format, view, map[string]any{
		"game":    session.Snapshot(),
		"article": view,
	})
}

type guessRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	var req guessRequest
	if code, err := decodeBody(w, r, maxSmallBody, &req, false); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	res, err := session.Guess(req.Word)
	switch {
	case errors.Is(err, game.ErrEmptyGuess), errors.Is(err, game.ErrNotAWord):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, game.ErrGameOver):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if res.Solved {
		s.log.Info("game solved", "game_id", session.ID, "guesses", len(session.Snapshot().Guesses))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"game":   session.Snapshot(),
	})
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	session := s.session(w, r)
	if session == nil {
		return
	}
	a := session.GiveUp()
	s.writeArticle(w, format, a, map[string]any{
		"game":    session.Snapshot(),
		"article": a,
	})
}

// writeArticle answers with the article in the requested format. JSON
// requests get jsonBody instead.
func (s *Server) writeArticle(w http.ResponseWriter, format render.Format, a *article.WikiArticle, jsonBody map[string]any) {
	var body []byte
	switch format {
	case render.FormatJSON:
		writeJSON(w, http.StatusOK, jsonBody)
		return
	case render.FormatText:
		body = []byte(render.Text(a))
	case render.FormatMarkdown:
		body = []byte(render.Markdown(a))
	case render.FormatHTML:
		out, err := render.HTML(a)
		if err != nil {
			s.log.Error("render html", "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		body = out
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(body)
}
