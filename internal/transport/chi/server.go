package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
	cataloguc "github.com/kailas-cloud/askgames/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/askgames/internal/usecase/health"
)

// askService answers one question end to end.
type askService interface {
	Ask(ctx context.Context, question string) (domain.GenerationResult, error)
}

// Server exposes the question pipeline and catalog browsing over HTTP.
type Server struct {
	ask     askService
	catalog *cataloguc.Service
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(ask askService, catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{ask: ask, catalog: catalog, health: health, logger: logger}
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/ask", s.handleAsk)
	r.Get("/api/v1/games/free", s.handleFreeGames)
	r.Get("/api/v1/games/similar", s.handleSimilarGames)
	r.Get("/api/v1/games/by-genre", s.handleGamesByGenre)
	r.Get("/api/v1/games/by-date", s.handleGamesByDate)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type askRequest struct {
	Question string `json:"question"`
}

type tokenUsage struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

type askResponse struct {
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	RelevanceScore float64    `json:"relevance_score"`
	Model          string     `json:"model,omitempty"`
	TokenUsage     tokenUsage `json:"token_usage"`
	Error          string     `json:"error,omitempty"`
}

// handleAsk handles POST /api/v1/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	result, err := s.ask.Ask(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Question:       req.Question,
		Answer:         result.Answer,
		RelevanceScore: result.Score,
		Model:          result.Model,
		TokenUsage:     tokenUsage{In: result.TokensIn, Out: result.TokensOut},
		Error:          result.Err,
	})
}

type gamesResponse struct {
	Total int                  `json:"total"`
	Games []domain.CatalogGame `json:"games"`
}

// handleFreeGames handles GET /api/v1/games/free.
func (s *Server) handleFreeGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.catalog.FreeGames(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Total: len(games), Games: games})
}

// handleSimilarGames handles GET /api/v1/games/similar?title=....
func (s *Server) handleSimilarGames(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query parameter 'title' is required")
		return
	}

	games, err := s.catalog.SimilarTo(r.Context(), title)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Total: len(games), Games: games})
}

// handleGamesByGenre handles GET /api/v1/games/by-genre?genre=....
func (s *Server) handleGamesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	if genre == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query parameter 'genre' is required")
		return
	}

	games, err := s.catalog.ByGenre(r.Context(), genre)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Total: len(games), Games: games})
}

// handleGamesByDate handles GET /api/v1/games/by-date?date=YYYY-MM-DD (or YYYY).
func (s *Server) handleGamesByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query parameter 'date' is required")
		return
	}

	games, err := s.catalog.Released(r.Context(), date)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Total: len(games), Games: games})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// handleDomainError maps sentinel errors onto HTTP statuses without exposing
// internals.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "validation_failed", domain.ErrEmptyQuestion.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "validation_failed", domain.ErrInvalidDate.Error())
	case errors.Is(err, domain.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "game_not_found", domain.ErrGameNotFound.Error())
	case errors.Is(err, domain.ErrEmbeddingFailed):
		writeError(w, http.StatusBadGateway, "embedding_failed", domain.ErrEmbeddingFailed.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
