package http

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTask(t *testing.T, body string) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal([]byte(body), &task), body)
	return task
}

func decodeTasks(t *testing.T, body string) []models.Task {
	t.Helper()
	var items []models.Task
	require.NoError(t, json.Unmarshal([]byte(body), &items), body)
	return items
}

func TestListTasks_EmptyIsArray(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &memTasks{})
	code, body := do(t, s, fiber.MethodGet, "/api/tasks", "tok-a", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `[]`, body)
}

func TestCreateTask(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &memTasks{})

	code, body := do(t, s, fiber.MethodPost, "/api/tasks", "tok-a", `{"text":"buy milk"}`)
	require.Equal(t, fiber.StatusCreated, code)
	task := decodeTask(t, body)
	assert.Equal(t, "buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.NotContains(t, body, "u-alice")

	code, body = do(t, s, fiber.MethodPost, "/api/tasks", "tok-a", `{"task":"legacy key","completed":true}`)
	require.Equal(t, fiber.StatusCreated, code)
	task = decodeTask(t, body)
	assert.Equal(t, "legacy key", task.Text)
	assert.True(t, task.Completed)

	code, body = do(t, s, fiber.MethodPost, "/api/tasks", "tok-a", `{"text":""}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, msgTextRequired, message(t, body))

	code, _ = do(t, s, fiber.MethodPost, "/api/tasks", "", `{"text":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestUpdateTask(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &memTasks{})

	_, body := do(t, s, fiber.MethodPost, "/api/tasks", "tok-a", `{"text":"buy milk"}`)
	id := decodeTask(t, body).ID

	code, body := do(t, s, fiber.MethodPut, "/api/tasks/"+id, "tok-a", `{"completed":true}`)
	require.Equal(t, fiber.StatusOK, code)
	task := decodeTask(t, body)
	assert.True(t, task.Completed)
	assert.Equal(t, "buy milk", task.Text)

	code, body = do(t, s, fiber.MethodPut, "/api/tasks/"+id, "tok-a", `{"text":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, msgTextRequired, message(t, body))

	code, body = do(t, s, fiber.MethodPut, "/api/tasks/"+id, "tok-b", `{"text":"hijack"}`)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, msgTaskNotFound, message(t, body))

	code, _ = do(t, s, fiber.MethodPut, "/api/tasks/missing", "tok-a", `{"completed":false}`)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &memTasks{})

	_, body := do(t, s, fiber.MethodPost, "/api/tasks", "tok-a", `{"text":"x"}`)
	id := decodeTask(t, body).ID

	code, _ := do(t, s, fiber.MethodDelete, "/api/tasks/"+id, "tok-b", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body = do(t, s, fiber.MethodDelete, "/api/tasks/"+id, "tok-a", "")
	assert.Equal(t, fiber.StatusNoContent, code)
	assert.Empty(t, body)

	code, _ = do(t, s, fiber.MethodDelete, "/api/tasks/"+id, "tok-a", "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestTasks_StoreFailureIs500(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &memTasks{err: errors.Join(common.ErrorInternal, errors.New("db error: boom"))})

	code, body := do(t, s, fiber.MethodGet, "/api/tasks", "tok-a", "")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, msgTasksFailed, message(t, body))
	assert.NotContains(t, body, "boom")
}

// signup, create, list, update, delete, list through the HTTP surface.
func TestWorkedExample(t *testing.T) {
	a := &fakeAuth{signupRes: &services.AuthResult{Token: "tok-a", User: models.PublicUser{ID: alice.UserID, Email: alice.Email}}}
	s := newTestServer(a, &memTasks{})

	code, body := do(t, s, fiber.MethodPost, "/api/auth/signup", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, fiber.StatusCreated, code)
	var signed authResponse
	require.NoError(t, json.Unmarshal([]byte(body), &signed))
	token := signed.Token

	code, body = do(t, s, fiber.MethodPost, "/api/tasks", token, `{"text":"buy milk"}`)
	require.Equal(t, fiber.StatusCreated, code)
	created := decodeTask(t, body)

	code, body = do(t, s, fiber.MethodGet, "/api/tasks", token, "")
	require.Equal(t, fiber.StatusOK, code)
	items := decodeTasks(t, body)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.False(t, items[0].Completed)

	code, body = do(t, s, fiber.MethodGet, "/api/tasks", "tok-b", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decodeTasks(t, body))

	code, body = do(t, s, fiber.MethodPut, "/api/tasks/"+created.ID, token, `{"completed":true}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, decodeTask(t, body).Completed)

	code, _ = do(t, s, fiber.MethodDelete, "/api/tasks/"+created.ID, token, "")
	require.Equal(t, fiber.StatusNoContent, code)

	code, body = do(t, s, fiber.MethodGet, "/api/tasks", token, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decodeTasks(t, body))
}
