// Package chi is the HTTP presentation layer: a thin JSON API over the
// query orchestrator and the semantic-layer summary.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/mode"
	healthuc "github.com/sandeep-kumarpalo/taglayer/internal/usecase/health"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/orchestrator"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/summary"
)

// ErrorCode is the machine-readable error class in API error bodies.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest    ErrorCode = "bad_request"
	CodeInvalidMode   ErrorCode = "invalid_mode"
	CodeMissingSource ErrorCode = "missing_source"
	CodeProviderError ErrorCode = "provider_error"
	CodeIndexError    ErrorCode = "index_unavailable"
	CodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AskRequest is the POST /v1/ask body. Mode defaults to raw.
type AskRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

// Asker answers a query in a given mode.
type Asker interface {
	Ask(ctx context.Context, query string, m mode.Mode) (orchestrator.Response, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the query API over chi.
type Server struct {
	ask           Asker
	summary       SummaryBuilder
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// SummaryBuilder computes the semantic-layer metrics snapshot.
type SummaryBuilder interface {
	Build(ctx context.Context) (summary.Metrics, error)
}

// NewServer creates an HTTP API server.
func NewServer(ask Asker, sum SummaryBuilder, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		ask:     ask,
		summary: sum,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidMode, http.StatusBadRequest, CodeInvalidMode),
		sentinelHandler(domain.ErrMissingSource, http.StatusNotFound, CodeMissingSource),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrTaggingProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexError),
	}
	return s
}

// Routes mounts the API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/ask", s.Ask)
	r.Get("/v1/summary", s.Summary)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query is required")
		return
	}

	m := mode.Mode(req.Mode)
	if req.Mode == "" {
		m = mode.Raw
	}

	resp, err := s.ask.Ask(r.Context(), req.Query, m)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Summary handles GET /v1/summary.
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.summary.Build(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidMode,
		domain.ErrMissingSource,
		domain.ErrEmbeddingProviderError,
		domain.ErrTaggingProviderError,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
