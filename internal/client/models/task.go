// Package models defines client-side data models used by the tasktracker CLI.
package models

import (
	"fmt"
	"time"
)

// Task mirrors the task JSON served by the API.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// String renders a task as one list line: "[x] text" or "[ ] text".
func (t *Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s", mark, t.Text)
}

// TaskPatch is the body of an update request. Nil fields are omitted and
// stay unchanged on the server.
type TaskPatch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// User is the public view of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what signup and login return.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
