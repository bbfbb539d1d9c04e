package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/patrickboxfordpartners/gravitasindex/internal/classifier"
	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type leadClassifier interface {
	ClassifyOne(ctx context.Context, leadID string) (*classifier.Result, error)
	ClassifyAll(ctx context.Context) ([]usecase.ClassifiedLead, error)
}

// ClassifyHandler triages leads at POST /api/leads/classify. Accepts either
// a single lead id or classify_all.
type ClassifyHandler struct {
	classify leadClassifier
}

func NewClassifyHandler(classify leadClassifier) *ClassifyHandler {
	return &ClassifyHandler{classify: classify}
}

type ClassifyRequest struct {
	LeadID      string `json:"lead_id,omitempty"`
	ClassifyAll bool   `json:"classify_all,omitempty"`
}

func (h *ClassifyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	if req.ClassifyAll {
		results, err := h.classify.ClassifyAll(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Classification failed"})
			return
		}
		for _, res := range results {
			middleware.RecordLeadClassified(res.Classification)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":          true,
			"classified_count": len(results),
			"results":          results,
		})
		return
	}

	if req.LeadID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lead_id required"})
		return
	}

	result, err := h.classify.ClassifyOne(r.Context(), req.LeadID)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Classification failed"})
		return
	}

	middleware.RecordLeadClassified(result.Classification)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lead_id": req.LeadID,
		"classification": map[string]any{
			"classification":     result.Classification,
			"recommended_action": result.RecommendedAction,
			"signals":            result.Signals,
			"rationale":          result.Rationale,
		},
	})
}
