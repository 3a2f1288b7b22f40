package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
)

// Filter selects which tasks List returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts "", "all", "active" and "completed" (case-insensitive).
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}

func (f Filter) match(t *models.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// TaskService is what the CLI needs from the task API.
type TaskService interface {
	List(ctx context.Context, f Filter) ([]*models.Task, error)
	Add(ctx context.Context, text string) (*models.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error)
	Rename(ctx context.Context, id string, text string) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	client client.Client
}

func NewTaskService(client client.Client) TaskService {
	return &taskService{client: client}
}

// List fetches the caller's tasks and filters them locally; the API has no
// server-side filter.
func (s *taskService) List(ctx context.Context, f Filter) ([]*models.Task, error) {
	items, err := s.client.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Task, 0, len(items))
	for _, t := range items {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *taskService) Add(ctx context.Context, text string) (*models.Task, error) {
	return s.client.CreateTask(ctx, strings.TrimSpace(text))
}

func (s *taskService) SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	return s.client.UpdateTask(ctx, id, models.TaskPatch{Completed: &completed})
}

func (s *taskService) Rename(ctx context.Context, id string, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	return s.client.UpdateTask(ctx, id, models.TaskPatch{Text: &text})
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteTask(ctx, id)
}
