package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/journal"
)

func TestRunsHandlerListRuns(t *testing.T) {
	t.Parallel()

	repo := &mockRunsRepo{
		runs: []journal.Run{
			{
				ID:        uuid.New(),
				Filename:  "doc.pdf",
				Formats:   []string{"text"},
				Status:    journal.RunSuccess,
				StartedAt: time.Now().Add(-time.Hour),
			},
		},
	}
	handler := NewRunsHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/runs?status=success&limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ListRuns(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "runs")
	require.NotNil(t, repo.listStatus)
	require.Equal(t, journal.RunSuccess, *repo.listStatus)
}

func TestRunsHandlerListRunsInvalidLimit(t *testing.T) {
	t.Parallel()

	handler := NewRunsHandler(&mockRunsRepo{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/v1/runs?limit=-1", nil)
	rec := httptest.NewRecorder()

	handler.ListRuns(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsHandlerListRunsInvalidStatus(t *testing.T) {
	t.Parallel()

	handler := NewRunsHandler(&mockRunsRepo{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/v1/runs?status=bogus", nil)
	rec := httptest.NewRecorder()

	handler.ListRuns(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsHandlerGetRun(t *testing.T) {
	t.Parallel()

	runID := uuid.New()
	repo := &mockRunsRepo{
		runs: []journal.Run{{ID: runID, Filename: "doc.pdf", Status: journal.RunRunning, StartedAt: time.Now()}},
	}
	handler := NewRunsHandler(repo, zap.NewNop())

	req := withRunIDParam(httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID.String(), nil), runID.String())
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Run runDTO `json:"run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, runID.String(), body.Run.ID)
	require.Equal(t, "doc.pdf", body.Run.Filename)
}

func TestRunsHandlerGetRunNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRunsRepo{err: journal.ErrNotFound}
	handler := NewRunsHandler(repo, zap.NewNop())

	runID := uuid.New()
	req := withRunIDParam(httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID.String(), nil), runID.String())
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsHandlerGetRunBadID(t *testing.T) {
	t.Parallel()

	handler := NewRunsHandler(&mockRunsRepo{}, zap.NewNop())
	req := withRunIDParam(httptest.NewRequest(http.MethodGet, "/v1/runs/not-a-uuid", nil), "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type mockRunsRepo struct {
	runs       []journal.Run
	err        error
	listStatus *journal.RunStatus
}

func (m *mockRunsRepo) Begin(context.Context, journal.Run) error {
	return m.err
}

func (m *mockRunsRepo) Complete(context.Context, uuid.UUID, time.Time, journal.RunStatus, *string) error {
	return m.err
}

func (m *mockRunsRepo) Get(context.Context, uuid.UUID) (journal.Run, error) {
	if m.err != nil {
		return journal.Run{}, m.err
	}
	if len(m.runs) > 0 {
		return m.runs[0], nil
	}
	return journal.Run{}, journal.ErrNotFound
}

func (m *mockRunsRepo) List(_ context.Context, status *journal.RunStatus, _, _ int) ([]journal.Run, error) {
	m.listStatus = status
	return m.runs, m.err
}

func (m *mockRunsRepo) Close() {}

func withRunIDParam(r *http.Request, runID string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("run_id", runID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, ctx))
}
