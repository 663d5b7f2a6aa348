package api

import (
	"net/http"

	"github.com/ashureev/widget-assist/internal/assist"
)

// AssistWidgetRequest is the body of POST /api/assist/widget.
type AssistWidgetRequest struct {
	Description string `json:"description"`
}

// AssistWidgetResponse carries a suggestion, or null when the model failed.
type AssistWidgetResponse struct {
	Suggestion *assist.Suggestion `json:"suggestion"`
	AIEnabled  bool               `json:"ai_enabled"`
}

// AssistWidget handles POST /api/assist/widget.
func (h *Handler) AssistWidget(w http.ResponseWriter, r *http.Request) {
	var req AssistWidgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	h.logger.Info("Widget assistance request", "description_length", len(req.Description))

	JSON(w, http.StatusOK, AssistWidgetResponse{
		Suggestion: h.assist.SuggestWidgetCopy(r.Context(), req.Description),
		AIEnabled:  h.assist.Enabled(),
	})
}
