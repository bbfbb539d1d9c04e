package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
	"github.com/patrickboxfordpartners/gravitasindex/internal/ratelimit"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type leadMagnetSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadMagnetInput) (*usecase.SubmitLeadMagnetOutput, []usecase.ValidationError, error)
}

// LeadMagnetHandler serves the playbook download form at POST /api/lead-magnet.
type LeadMagnetHandler struct {
	submit  leadMagnetSubmitter
	limiter *ratelimit.Limiter
}

func NewLeadMagnetHandler(submit leadMagnetSubmitter, limiter *ratelimit.Limiter) *LeadMagnetHandler {
	return &LeadMagnetHandler{submit: submit, limiter: limiter}
}

type LeadMagnetResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	LeadID      string `json:"leadId,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func (h *LeadMagnetHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.limiter) {
		return
	}

	var input usecase.SubmitLeadMagnetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	output, validationErrors, err := h.submit.Execute(r.Context(), input)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse(validationErrors))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to process request. Please try again."})
		return
	}

	middleware.RecordLeadCaptured("lead_magnet")

	writeJSON(w, http.StatusOK, LeadMagnetResponse{
		Success:     true,
		Message:     "Download link sent to your email!",
		LeadID:      output.LeadID,
		DownloadURL: output.DownloadURL,
	})
}
