package api

import (
	"net/http"
	"strconv"

	"github.com/ashureev/widget-assist/internal/domain"
	"github.com/ashureev/widget-assist/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// CreateSubmissionRequest is the body of POST /api/submissions.
type CreateSubmissionRequest struct {
	WidgetName string `json:"widget_name"`
	Channel    string `json:"channel"`
	Value      string `json:"value"`
}

// CreateSubmission handles POST /api/submissions: it writes the Telegram
// notification, stores the submission and publishes it to the live feed.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	ctx := r.Context()
	sub := &domain.Submission{
		ID:          uuid.NewString(),
		WidgetName:  req.WidgetName,
		Channel:     req.Channel,
		Value:       req.Value,
		Message:     h.assist.SimulateTelegramSubmission(ctx, req.WidgetName, req.Channel, req.Value),
		AIGenerated: h.assist.Enabled(),
		CreatedAt:   h.now().UTC(),
	}

	if err := h.repo.SaveSubmission(ctx, sub); err != nil {
		h.logger.Error("Failed to store submission",
			"error", err,
			"widget", sub.WidgetName,
			"request_id", chiMiddleware.GetReqID(ctx),
		)
		Error(w, http.StatusInternalServerError, "failed to store submission")
		return
	}

	h.logger.Info("Submission received",
		"submission_id", sub.ID,
		"widget", sub.WidgetName,
		"channel", sub.Channel,
		"ai_generated", sub.AIGenerated,
	)
	h.publisher.Publish(sub)

	JSON(w, http.StatusCreated, sub)
}

// ListSubmissions handles GET /api/submissions?widget=&limit=.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	subs, err := h.repo.ListSubmissions(r.Context(), r.URL.Query().Get("widget"), store.ClampLimit(limit))
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
	})
}

// GetSubmission handles GET /api/submissions/{id}.
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.repo.GetSubmission(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get submission", "error", err, "submission_id", id)
		Error(w, http.StatusInternalServerError, "failed to get submission")
		return
	}
	if sub == nil {
		Error(w, http.StatusNotFound, "submission not found")
		return
	}

	JSON(w, http.StatusOK, sub)
}
