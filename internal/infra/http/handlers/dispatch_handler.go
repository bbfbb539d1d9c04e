package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type sequenceDispatcher interface {
	Execute(ctx context.Context, now time.Time) (*usecase.DispatchOutput, error)
}

// DispatchHandler is the cron-triggered endpoint that drains due sequence
// emails. The caller must present the shared secret; anything else is
// rejected before any work happens.
type DispatchHandler struct {
	dispatch sequenceDispatcher
	secret   string
}

func NewDispatchHandler(dispatch sequenceDispatcher, secret string) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch, secret: secret}
}

type DispatchResponse struct {
	Success bool     `json:"success"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

func (h *DispatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(auth), []byte("Bearer "+h.secret)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	output, err := h.dispatch.Execute(r.Context(), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Database error"})
		return
	}

	middleware.RecordSequenceDispatch(output.Sent, output.Failed)

	writeJSON(w, http.StatusOK, DispatchResponse{
		Success: true,
		Sent:    output.Sent,
		Failed:  output.Failed,
		Errors:  output.Errors,
	})
}
