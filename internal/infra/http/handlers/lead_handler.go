package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
	"github.com/patrickboxfordpartners/gravitasindex/internal/ratelimit"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type leadSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, []usecase.ValidationError, error)
}

// LeadHandler serves the full application form at POST /api/leads.
type LeadHandler struct {
	submit  leadSubmitter
	limiter *ratelimit.Limiter
}

func NewLeadHandler(submit leadSubmitter, limiter *ratelimit.Limiter) *LeadHandler {
	return &LeadHandler{submit: submit, limiter: limiter}
}

type SubmitLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	LeadID  string `json:"leadId,omitempty"`
}

func (h *LeadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.limiter) {
		return
	}

	var input usecase.SubmitLeadInput
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
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to submit lead. Please try again."})
		return
	}

	middleware.RecordLeadCaptured("alpha_form")

	writeJSON(w, http.StatusCreated, SubmitLeadResponse{
		Success: true,
		Message: "Application submitted successfully!",
		LeadID:  output.LeadID,
	})
}

// allowRequest applies the moderate preset and writes the 429 response
// with rate-limit headers when the caller is over budget.
func allowRequest(w http.ResponseWriter, r *http.Request, limiter *ratelimit.Limiter) bool {
	result := limiter.Check(ratelimit.ClientIdentifier(r), ratelimit.Moderate)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if result.Allowed {
		return true
	}

	middleware.RecordRateLimited(r.URL.Path)

	retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":      "Too many requests. Please try again later.",
		"retryAfter": retryAfter,
	})
	return false
}

func validationErrorResponse(validationErrors []usecase.ValidationError) errorResponse {
	resp := errorResponse{Error: "Invalid form data"}
	for _, ve := range validationErrors {
		resp.Details = append(resp.Details, fieldDetail{Field: ve.Field, Message: ve.Message})
	}
	return resp
}
