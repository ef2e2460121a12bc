package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	calls int
	err   error
}

func (s *stubEnqueuer) EnqueueAuditRetention(ctx context.Context) (*asynq.TaskInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault, Type: TaskAuditRetention}, nil
}

func mountJobs(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestTriggerAuditRetentionQueuesSweep(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	router := mountJobs(NewHandler(nil, enqueuer, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/audit-retention", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, enqueuer.calls)
	assert.True(t, strings.Contains(rec.Body.String(), `"task_id":"task-1"`))
	assert.True(t, strings.Contains(rec.Body.String(), `"queue":"default"`))
}

func TestTriggerAuditRetentionReportsQueueOutage(t *testing.T) {
	enqueuer := &stubEnqueuer{err: errors.New("redis unreachable")}
	router := mountJobs(NewHandler(nil, enqueuer, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/audit-retention", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTriggerAuditRetentionWithoutClient(t *testing.T) {
	router := mountJobs(NewHandler(nil, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/audit-retention", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
