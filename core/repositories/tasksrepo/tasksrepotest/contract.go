// Package tasksrepotest holds the behavior every tasksrepo.Storer must share,
// run by each backend's tests.
package tasksrepotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStorer returns an empty store for one subtest.
type NewStorer func(t *testing.T) tasksrepo.Storer

// Run exercises s against the scoping and ordering rules of the task store.
func Run(t *testing.T, newStorer NewStorer) {
	t.Run("create fills store-owned fields", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		user := uuid.NewString()
		due := "2026-01-01"

		task, err := s.Create(ctx, tasksrepo.NewTask{
			UserID:   user,
			Title:    "Buy milk",
			Priority: tasksrepo.PriorityHigh,
			DueDate:  &due,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, task.ID)
		assert.False(t, task.CreatedAt.IsZero())
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.IsCompleted)
		assert.Equal(t, tasksrepo.PriorityHigh, task.PriorityOrDefault())
		assert.Equal(t, user, task.UserID)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, due, *task.DueDate)
	})

	t.Run("list is scoped to the user and newest first", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		alice, bob := uuid.NewString(), uuid.NewString()

		for _, title := range []string{"first", "second", "third"} {
			_, err := s.Create(ctx, tasksrepo.NewTask{UserID: alice, Title: title, Priority: tasksrepo.PriorityLow})
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}
		_, err := s.Create(ctx, tasksrepo.NewTask{UserID: bob, Title: "bob's", Priority: tasksrepo.PriorityLow})
		require.NoError(t, err)

		tasks, err := s.ListByUser(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{"third", "second", "first"}, titles(tasks))

		empty, err := s.ListByUser(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update applies only present fields", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		user := uuid.NewString()
		due := "2026-03-01"

		task, err := s.Create(ctx, tasksrepo.NewTask{UserID: user, Title: "Walk dog", Priority: tasksrepo.PriorityMedium, DueDate: &due})
		require.NoError(t, err)

		done := true
		require.NoError(t, s.Update(ctx, task.ID, user, tasksrepo.TaskChanges{IsCompleted: &done}))

		got := only(t, s, user)
		assert.True(t, got.IsCompleted)
		assert.Equal(t, "Walk dog", got.Title)
		assert.Equal(t, tasksrepo.PriorityMedium, got.PriorityOrDefault())
		require.NotNil(t, got.DueDate)

		title := "Walk the dog"
		require.NoError(t, s.Update(ctx, task.ID, user, tasksrepo.TaskChanges{
			Title:   &title,
			DueDate: schemas.Null[string](),
		}))

		got = only(t, s, user)
		assert.Equal(t, "Walk the dog", got.Title)
		assert.Nil(t, got.DueDate)
		assert.True(t, got.IsCompleted)
	})

	t.Run("update of another user's task is a silent no-op", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		owner, intruder := uuid.NewString(), uuid.NewString()

		task, err := s.Create(ctx, tasksrepo.NewTask{UserID: owner, Title: "Private", Priority: tasksrepo.PriorityLow})
		require.NoError(t, err)

		title := "Hijacked"
		require.NoError(t, s.Update(ctx, task.ID, intruder, tasksrepo.TaskChanges{Title: &title}))
		assert.Equal(t, "Private", only(t, s, owner).Title)

		require.NoError(t, s.Update(ctx, uuid.NewString(), owner, tasksrepo.TaskChanges{Title: &title}))
	})

	t.Run("delete is scoped by id and owner", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		owner, intruder := uuid.NewString(), uuid.NewString()

		task, err := s.Create(ctx, tasksrepo.NewTask{UserID: owner, Title: "Keep me", Priority: tasksrepo.PriorityLow})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, task.ID, intruder))
		only(t, s, owner)

		require.NoError(t, s.Delete(ctx, uuid.NewString(), owner))
		only(t, s, owner)

		require.NoError(t, s.Delete(ctx, task.ID, owner))
		tasks, err := s.ListByUser(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("malformed ids are a silent no-op", func(t *testing.T) {
		s := newStorer(t)
		ctx := context.Background()
		owner := uuid.NewString()

		_, err := s.Create(ctx, tasksrepo.NewTask{UserID: owner, Title: "Stay", Priority: tasksrepo.PriorityLow})
		require.NoError(t, err)

		title := "Changed"
		require.NoError(t, s.Update(ctx, "not-a-uuid", owner, tasksrepo.TaskChanges{Title: &title}))
		require.NoError(t, s.Delete(ctx, "not-a-uuid", owner))
		assert.Equal(t, "Stay", only(t, s, owner).Title)
	})
}

func only(t *testing.T, s tasksrepo.Storer, user string) tasksrepo.Task {
	t.Helper()
	tasks, err := s.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	return tasks[0]
}

func titles(tasks []tasksrepo.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}
