package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickboxfordpartners/gravitasindex/internal/ratelimit"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type stubLeadSubmitter struct {
	output           *usecase.SubmitLeadOutput
	validationErrors []usecase.ValidationError
	err              error
	calls            int
}

func (s *stubLeadSubmitter) Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, []usecase.ValidationError, error) {
	s.calls++
	return s.output, s.validationErrors, s.err
}

func postLead(handler *LeadHandler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	r.Header.Set("X-Real-IP", "203.0.113.7")
	w := httptest.NewRecorder()
	handler.Handle(w, r)
	return w
}

func TestLeadHandlerSuccess(t *testing.T) {
	submit := &stubLeadSubmitter{output: &usecase.SubmitLeadOutput{LeadID: "lead-1"}}
	handler := NewLeadHandler(submit, ratelimit.New())

	w := postLead(handler, `{"name":"Jordan Hale","email":"jordan@example.com","market":"Austin, TX"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SubmitLeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "lead-1", resp.LeadID)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestLeadHandlerInvalidJSON(t *testing.T) {
	submit := &stubLeadSubmitter{}
	handler := NewLeadHandler(submit, ratelimit.New())

	w := postLead(handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, submit.calls)
}

func TestLeadHandlerValidationErrors(t *testing.T) {
	submit := &stubLeadSubmitter{validationErrors: []usecase.ValidationError{
		{Field: "email", Message: "is invalid"},
	}}
	handler := NewLeadHandler(submit, ratelimit.New())

	w := postLead(handler, `{"name":"Jordan Hale","email":"bad","market":"Austin"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid form data", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "email", resp.Details[0].Field)
}

func TestLeadHandlerUsecaseFailure(t *testing.T) {
	submit := &stubLeadSubmitter{err: &usecase.TechnicalError{Code: "DATABASE_ERROR", Message: "failed"}}
	handler := NewLeadHandler(submit, ratelimit.New())

	w := postLead(handler, `{"name":"Jordan Hale","email":"jordan@example.com","market":"Austin, TX"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLeadHandlerRateLimited(t *testing.T) {
	submit := &stubLeadSubmitter{output: &usecase.SubmitLeadOutput{LeadID: "lead-1"}}
	handler := NewLeadHandler(submit, ratelimit.New())
	body := `{"name":"Jordan Hale","email":"jordan@example.com","market":"Austin, TX"}`

	for i := 0; i < 10; i++ {
		w := postLead(handler, body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := postLead(handler, body)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Too many requests")
	assert.Equal(t, 10, submit.calls)
}

func TestLeadHandlerRateLimitKeysOnClient(t *testing.T) {
	submit := &stubLeadSubmitter{output: &usecase.SubmitLeadOutput{LeadID: "lead-1"}}
	handler := NewLeadHandler(submit, ratelimit.New())
	body := `{"name":"Jordan Hale","email":"jordan@example.com","market":"Austin, TX"}`

	for i := 0; i < 11; i++ {
		postLead(handler, body)
	}

	// A different client IP still gets through.
	r := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	r.Header.Set("X-Real-IP", "198.51.100.9")
	w := httptest.NewRecorder()
	handler.Handle(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
}
