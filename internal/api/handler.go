// Package api provides HTTP handlers for the widget service.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/widget-assist/internal/assist"
	"github.com/ashureev/widget-assist/internal/domain"
	"github.com/ashureev/widget-assist/internal/store"
	"github.com/go-chi/chi/v5"
)

// defaultMaxRequestBodySize is the maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// Publisher receives every stored submission, e.g. the live feed.
type Publisher interface {
	Publish(sub *domain.Submission)
}

type noopPublisher struct{}

func (noopPublisher) Publish(*domain.Submission) {}

// Handler serves the widget API.
type Handler struct {
	repo      store.Repository
	assist    *assist.Service
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a Handler. A nil publisher discards events.
func NewHandler(repo store.Repository, svc *assist.Service, publisher Publisher, logger *slog.Logger) *Handler {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:      repo,
		assist:    svc,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes registers API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/health", h.Health)
		r.Post("/assist/widget", h.AssistWidget)
		r.Route("/submissions", func(r chi.Router) {
			r.Post("/", h.CreateSubmission)
			r.Get("/", h.ListSubmissions)
			r.Get("/{id}", h.GetSubmission)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

// writeDecodeError maps decodeJSON failures to responses.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	Error(w, http.StatusBadRequest, "invalid request body")
}

// GetConfig returns the server configuration for the frontend.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"ai_enabled": h.assist.Enabled(),
		"provider":   h.assist.Provider(),
		"model":      h.assist.Model(),
	})
}

// Health reports database connectivity and AI mode.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		JSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":     "unavailable",
			"ai_enabled": h.assist.Enabled(),
		})
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"ai_enabled": h.assist.Enabled(),
	})
}
