package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/wikiguess/internal/config"
	"github.com/dgallion1/wikiguess/internal/game"
	"github.com/dgallion1/wikiguess/internal/pipeline"
	"github.com/dgallion1/wikiguess/internal/wikipedia"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for wikiguess.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	games        *game.Store
	fetchStats   *wikipedia.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, games *game.Store, fetchStats *wikipedia.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		games:        games,
		fetchStats:   fetchStats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints, when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Route("/api/games", func(r chi.Router) {
			r.Post("/", s.handleCreateGame)
			r.Get("/jobs/{jobID}/status", s.handleJobStatus)
			r.Get("/{gameID}", s.handleGetGame)
			r.Post("/{gameID}/guesses", s.handleGuess)
			r.Post("/{gameID}/give-up", s.handleGiveUp)
		})
		r.Post("/api/parse", s.handleParse)
		r.Get("/api/stats/fetch", s.handleFetchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
