package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// AdminLeadHandler backs the dashboard lead views: listing, detail, and
// manual status changes.
type AdminLeadHandler struct {
	Leads entity.LeadRepositoryInterface
}

func NewAdminLeadHandler(leads entity.LeadRepositoryInterface) *AdminLeadHandler {
	return &AdminLeadHandler{Leads: leads}
}

func (h *AdminLeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	leads, err := h.Leads.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list leads"})
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

func (h *AdminLeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.FindByID(r.Context(), chi.URLParam(r, "leadId"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch lead"})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

var validStatuses = map[string]bool{
	entity.LeadStatusNew:       true,
	entity.LeadStatusContacted: true,
	entity.LeadStatusQualified: true,
	entity.LeadStatusConverted: true,
	entity.LeadStatusLost:      true,
}

// HandleStatus applies an operator status change. Any status is reachable
// from any other; the pipeline never enforces an ordering here.
func (h *AdminLeadHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}
	if !validStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid status"})
		return
	}

	if err := h.Leads.UpdateStatus(r.Context(), chi.URLParam(r, "leadId"), req.Status); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": req.Status})
}
