package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

type stubDispatcher struct {
	output *usecase.DispatchOutput
	err    error
	calls  int
}

func (s *stubDispatcher) Execute(ctx context.Context, now time.Time) (*usecase.DispatchOutput, error) {
	s.calls++
	return s.output, s.err
}

func getDispatch(handler *DispatchHandler, authorization string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/cron/send-emails", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.Handle(w, r)
	return w
}

func TestDispatchHandlerRejectsMissingAuth(t *testing.T) {
	dispatch := &stubDispatcher{output: &usecase.DispatchOutput{}}
	handler := NewDispatchHandler(dispatch, "cron-secret")

	w := getDispatch(handler, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, dispatch.calls)
}

func TestDispatchHandlerRejectsWrongSecret(t *testing.T) {
	dispatch := &stubDispatcher{output: &usecase.DispatchOutput{}}
	handler := NewDispatchHandler(dispatch, "cron-secret")

	w := getDispatch(handler, "Bearer wrong-secret")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, dispatch.calls)
}

func TestDispatchHandlerRejectsAllWhenSecretUnset(t *testing.T) {
	dispatch := &stubDispatcher{output: &usecase.DispatchOutput{}}
	handler := NewDispatchHandler(dispatch, "")

	w := getDispatch(handler, "Bearer ")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, dispatch.calls)
}

func TestDispatchHandlerRunsWithCorrectSecret(t *testing.T) {
	dispatch := &stubDispatcher{output: &usecase.DispatchOutput{
		Sent:   3,
		Failed: 1,
		Errors: []string{"task t1 (welcome): lead not found"},
	}}
	handler := NewDispatchHandler(dispatch, "cron-secret")

	w := getDispatch(handler, "Bearer cron-secret")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, dispatch.calls)
	var resp DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
}

func TestDispatchHandlerUsecaseFailure(t *testing.T) {
	dispatch := &stubDispatcher{err: &usecase.TechnicalError{Code: "DATABASE_ERROR", Message: "db down"}}
	handler := NewDispatchHandler(dispatch, "cron-secret")

	w := getDispatch(handler, "Bearer cron-secret")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
