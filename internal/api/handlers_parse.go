package api

import (
	"net/http"

	"github.com/dgallion1/wikiguess/internal/article"
	"github.com/dgallion1/wikiguess/internal/render"
	"github.com/dgallion1/wikiguess/internal/wikitext"
)

type parseRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// handleParse runs the article parser synchronously on caller-supplied
// wikitext, without starting a game.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req parseRequest
	if code, err := decodeBody(w, r, s.cfg.MaxContentBytes+maxSmallBody, &req, false); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	warnings := []wikitext.Warning{}
	a := article.Parse(req.Title, req.Content, func(warn wikitext.Warning) {
		warnings = append(warnings, warn)
	})

	s.writeArticle(w, format, a, map[string]any{
		"article":  a,
		"warnings": warnings,
	})
}
