package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskService performs CRUD on tasks on behalf of a verified identity. All
// store access is scoped to that identity: tasks of other users are
// reported as common.ErrorNotFound, never as forbidden.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService over the given repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the caller's tasks in creation order.
func (s *TaskService) List(ctx context.Context, id *models.Identity) ([]*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	items, err := s.repomanager.Tasks(s.db).ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, internal(err)
	}
	return items, nil
}

// Create stores a new task owned by the caller. Blank text is rejected with
// common.ErrorValidation; completed defaults to false when nil.
func (s *TaskService) Create(ctx context.Context, id *models.Identity, text string, completed *bool) (*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrorValidation
	}

	task := &models.Task{
		ID:     uuid.NewString(),
		UserID: id.UserID,
		Text:   text,
	}
	if completed != nil {
		task.Completed = *completed
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, internal(err)
	}
	return created, nil
}

// Update applies patch to one of the caller's tasks and returns the result.
// Fields absent from patch are left unchanged; a present but blank text is
// rejected with common.ErrorValidation.
func (s *TaskService) Update(ctx context.Context, id *models.Identity, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, common.ErrorValidation
		}
		patch.Text = &text
	}

	if !isTaskID(taskID) {
		return nil, common.ErrorNotFound
	}

	updated, err := s.repomanager.Tasks(s.db).Update(ctx, id.UserID, taskID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internal(err)
	}
	return updated, nil
}

// Delete permanently removes one of the caller's tasks. Deleting a task
// that is already gone yields common.ErrorNotFound.
func (s *TaskService) Delete(ctx context.Context, id *models.Identity, taskID string) error {
	if id == nil {
		return common.ErrorUnauthorized
	}

	if !isTaskID(taskID) {
		return common.ErrorNotFound
	}

	err := s.repomanager.Tasks(s.db).Delete(ctx, id.UserID, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internal(err)
	}
	return nil
}

// isTaskID reports whether id can name a stored task. Anything that is not
// a UUID cannot, and is treated as not found rather than sent to the store.
func isTaskID(id string) bool {
	return uuid.Validate(id) == nil
}
