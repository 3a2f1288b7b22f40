package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("db error: connection refused")

// memManager is an in-memory RepositoryManager. Setting failUsers or
// failTasks makes every call on that repository return errStoreDown.
type memManager struct {
	mu        sync.Mutex
	users     map[string]*models.User // by email
	tasks     []*models.Task
	failUsers bool
	failTasks bool
}

func newMemManager() *memManager {
	return &memManager{users: map[string]*models.User{}}
}

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository             { return &memUsers{m} }
func (m *memManager) Tasks(dbx.DBTX) tasks.Repository             { return &memTasks{m} }

type memUsers struct{ m *memManager }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failUsers {
		return nil, errStoreDown
	}
	if _, ok := r.m.users[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	c := *u
	c.CreatedAt = time.Now()
	r.m.users[u.Email] = &c
	out := c
	return &out, nil
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failUsers {
		return nil, errStoreDown
	}
	u, ok := r.m.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

type memTasks struct{ m *memManager }

func (r *memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failTasks {
		return nil, errStoreDown
	}
	c := *t
	c.CreatedAt = time.Now()
	r.m.tasks = append(r.m.tasks, &c)
	out := c
	return &out, nil
}

func (r *memTasks) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failTasks {
		return nil, errStoreDown
	}
	items := make([]*models.Task, 0)
	for _, t := range r.m.tasks {
		if t.UserID == userID {
			c := *t
			items = append(items, &c)
		}
	}
	return items, nil
}

func (r *memTasks) Update(_ context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failTasks {
		return nil, errStoreDown
	}
	for _, t := range r.m.tasks {
		if t.ID == taskID && t.UserID == userID {
			if patch.Text != nil {
				t.Text = *patch.Text
			}
			if patch.Completed != nil {
				t.Completed = *patch.Completed
			}
			c := *t
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memTasks) Delete(_ context.Context, userID, taskID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failTasks {
		return errStoreDown
	}
	for i, t := range r.m.tasks {
		if t.ID == taskID && t.UserID == userID {
			r.m.tasks = append(r.m.tasks[:i], r.m.tasks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}
