package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newTaskFixture(t *testing.T) (*memManager, *TaskService, *models.Identity, *models.Identity) {
	t.Helper()
	m := newMemManager()
	a := &models.Identity{UserID: uuid.NewString(), Email: "a@x.com"}
	b := &models.Identity{UserID: uuid.NewString(), Email: "b@x.com"}
	return m, NewTaskService(nil, m), a, b
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	_, s, a, _ := newTaskFixture(t)

	task, err := s.Create(ctx, a, "buy milk", nil)
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(task.ID))
	assert.Equal(t, "buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, a.UserID, task.UserID)
	assert.False(t, task.CreatedAt.IsZero())

	done, err := s.Create(ctx, a, "  trimmed  ", boolPtr(true))
	require.NoError(t, err)
	assert.Equal(t, "trimmed", done.Text)
	assert.True(t, done.Completed)

	_, err = s.Create(ctx, a, "", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(ctx, a, "   ", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(ctx, nil, "x", nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTaskService_ListIsolatedAndOrdered(t *testing.T) {
	ctx := context.Background()
	_, s, a, b := newTaskFixture(t)

	empty, err := s.List(ctx, a)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, a, text, nil)
		require.NoError(t, err)
	}
	_, err = s.Create(ctx, b, "theirs", nil)
	require.NoError(t, err)

	items, err := s.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "one", items[0].Text)
	assert.Equal(t, "two", items[1].Text)
	assert.Equal(t, "three", items[2].Text)

	items, err = s.List(ctx, b)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "theirs", items[0].Text)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	_, s, a, b := newTaskFixture(t)

	task, err := s.Create(ctx, a, "buy milk", nil)
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		got, err := s.Update(ctx, a, task.ID, models.TaskPatch{Completed: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "buy milk", got.Text)

		got, err = s.Update(ctx, a, task.ID, models.TaskPatch{Text: strPtr("buy oat milk")})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "buy oat milk", got.Text)
	})

	t.Run("empty patch returns current record", func(t *testing.T) {
		got, err := s.Update(ctx, a, task.ID, models.TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, "buy oat milk", got.Text)
		assert.True(t, got.Completed)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		_, err := s.Update(ctx, a, task.ID, models.TaskPatch{Text: strPtr(" ")})
		assert.ErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("foreign task is not found and unchanged", func(t *testing.T) {
		_, err := s.Update(ctx, b, task.ID, models.TaskPatch{Text: strPtr("hijack")})
		assert.ErrorIs(t, err, common.ErrorNotFound)

		items, err := s.List(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, "buy oat milk", items[0].Text)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := s.Update(ctx, a, uuid.NewString(), models.TaskPatch{Completed: boolPtr(false)})
		assert.ErrorIs(t, err, common.ErrorNotFound)
		_, err = s.Update(ctx, a, "not-a-uuid", models.TaskPatch{Completed: boolPtr(false)})
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	_, s, a, b := newTaskFixture(t)

	task, err := s.Create(ctx, a, "x", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, b, task.ID), common.ErrorNotFound)
	require.NoError(t, s.Delete(ctx, a, task.ID))
	assert.ErrorIs(t, s.Delete(ctx, a, task.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, a, "42"), common.ErrorNotFound)

	items, err := s.List(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTaskService_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	m, s, a, _ := newTaskFixture(t)
	m.failTasks = true

	_, err := s.List(ctx, a)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Create(ctx, a, "x", nil)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Update(ctx, a, uuid.NewString(), models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, s.Delete(ctx, a, uuid.NewString()), common.ErrorInternal)
}

// signup, create, list, update, delete, list for one user end to end.
func TestWorkedExample(t *testing.T) {
	ctx := context.Background()
	m := newMemManager()
	as := NewAuthService(nil, m, testConfig())
	ts := NewTaskService(nil, m)

	res, err := as.Signup(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	id, err := as.VerifyToken(res.Token)
	require.NoError(t, err)

	task, err := ts.Create(ctx, id, "buy milk", nil)
	require.NoError(t, err)

	items, err := ts.List(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, task.ID, items[0].ID)
	assert.False(t, items[0].Completed)

	updated, err := ts.Update(ctx, id, task.ID, models.TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Text)

	require.NoError(t, ts.Delete(ctx, id, task.ID))

	items, err = ts.List(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, items)
}
