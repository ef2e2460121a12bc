package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid task status transition")

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListTasksRequest) ([]Task, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due_date: %w", err)
	}

	task := Task{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      StatusOpen,
	}
	id, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateTaskRequest) (*Task, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parse due_date: %w", err)
		}
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Transition moves a task between statuses. Open tasks may be completed or
// cancelled; completed and cancelled tasks may only be reopened.
func (s *Service) Transition(ctx context.Context, id int64, status string) (*Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	allowed := false
	switch task.Status {
	case StatusOpen:
		allowed = status == StatusDone || status == StatusCancelled
	case StatusDone, StatusCancelled:
		allowed = status == StatusOpen
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, task.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	if status == StatusDone {
		updates["completed_at"] = s.now().UTC()
	} else {
		updates["completed_at"] = nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("transition task: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return task, nil
}
