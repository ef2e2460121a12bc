package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTaskRepo struct {
	tasks  map[int64]*Task
	nextID int64
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int64]*Task), nextID: 1}
}

func (m *mockTaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskRepo) List(ctx context.Context, req ListTasksRequest) ([]Task, int, error) {
	var out []Task
	for _, t := range m.tasks {
		if req.Status != "" && t.Status != req.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task Task) (int64, error) {
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = &task
	return task.ID, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	t, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		t.Status = v.(string)
	}
	if v, ok := updates["completed_at"]; ok {
		if v == nil {
			t.CompletedAt = nil
		} else {
			at := v.(time.Time)
			t.CompletedAt = &at
		}
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func newOpenTask(t *testing.T, svc *Service) *Task {
	t.Helper()
	task, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:   "file quarterly statement",
		DueDate: "2026-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, StatusOpen, task.Status)
	return task
}

func TestTransitionOpenToDoneStampsCompletion(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	fixed := time.Date(2026, 8, 29, 16, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	task := newOpenTask(t, svc)

	done, err := svc.Transition(context.Background(), task.ID, StatusDone)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, fixed, *done.CompletedAt)
}

func TestTransitionReopenClearsCompletion(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	task := newOpenTask(t, svc)

	_, err := svc.Transition(context.Background(), task.ID, StatusDone)
	require.NoError(t, err)

	reopened, err := svc.Transition(context.Background(), task.ID, StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTransitionDoneToCancelledIsRejected(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	task := newOpenTask(t, svc)

	_, err := svc.Transition(context.Background(), task.ID, StatusDone)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), task.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionToSameStatusIsNoop(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	task := newOpenTask(t, svc)

	same, err := svc.Transition(context.Background(), task.ID, StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, same.Status)
}

func TestCreateRejectsBadDueDate(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	_, err := svc.Create(context.Background(), CreateTaskRequest{Title: "x", DueDate: "15/09/2026"})
	assert.Error(t, err)
}
