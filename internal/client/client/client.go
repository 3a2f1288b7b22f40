package client

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
)

type Client interface {
	Signup(ctx context.Context, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Ping(ctx context.Context) error

	// SetToken sets the bearer token sent with task calls; "" clears it.
	SetToken(token string)

	ListTasks(ctx context.Context) ([]*models.Task, error)
	CreateTask(ctx context.Context, text string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
