package tasksrepo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/jrazmi/flowdesk/sdk/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorer struct {
	created []tasksrepo.NewTask
	updates []tasksrepo.TaskChanges
	deletes []string
	list    []tasksrepo.Task
	err     error
}

func (s *stubStorer) Create(_ context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	if s.err != nil {
		return tasksrepo.Task{}, s.err
	}
	s.created = append(s.created, input)
	p := input.Priority
	return tasksrepo.Task{ID: "t1", Title: input.Title, Priority: &p, DueDate: input.DueDate, UserID: input.UserID}, nil
}

func (s *stubStorer) ListByUser(context.Context, string) ([]tasksrepo.Task, error) {
	return s.list, s.err
}

func (s *stubStorer) Update(_ context.Context, _, _ string, changes tasksrepo.TaskChanges) error {
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, changes)
	return nil
}

func (s *stubStorer) Delete(_ context.Context, id, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.deletes = append(s.deletes, id)
	return nil
}

func newRepo(s *stubStorer) *tasksrepo.Repository {
	return tasksrepo.NewRepository(logger.NewDiscard(), s)
}

func TestCreate_ValidTaskDefaultsPriority(t *testing.T) {
	s := &stubStorer{}
	repo := newRepo(s)

	task, err := repo.Create(context.Background(), "u1", tasksrepo.CreateTask{
		Title: validation.StringPtr("  Buy milk  "),
	})
	require.NoError(t, err)

	require.Len(t, s.created, 1)
	assert.Equal(t, "u1", s.created[0].UserID)
	assert.Equal(t, "Buy milk", s.created[0].Title)
	assert.Equal(t, tasksrepo.PriorityLow, s.created[0].Priority)
	assert.Nil(t, s.created[0].DueDate)
	assert.Equal(t, "t1", task.ID)
}

func TestCreate_InvalidNeverReachesStore(t *testing.T) {
	s := &stubStorer{}
	repo := newRepo(s)

	_, err := repo.Create(context.Background(), "u1", tasksrepo.CreateTask{
		Title:    validation.StringPtr("ab"),
		Priority: validation.StringPtr("Urgent"),
	})
	require.Error(t, err)

	ve, ok := schemas.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, schemas.MsgTitleTooShort, ve.Fields["title"])
	assert.Equal(t, schemas.MsgPriorityEnum, ve.Fields["priority"])
	assert.Empty(t, s.created)
}

func TestCreate_RequiresUser(t *testing.T) {
	s := &stubStorer{}
	_, err := newRepo(s).Create(context.Background(), "", tasksrepo.CreateTask{Title: validation.StringPtr("Buy milk")})
	assert.ErrorIs(t, err, tasksrepo.ErrMissingUser)
	assert.Empty(t, s.created)
}

func TestListForUser_EmptyIsNotNil(t *testing.T) {
	tasks, err := newRepo(&stubStorer{}).ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	s := &stubStorer{err: cause}
	repo := newRepo(s)
	ctx := context.Background()

	_, err := repo.ListForUser(ctx, "u1")
	var se *tasksrepo.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "list", se.Op)
	assert.ErrorIs(t, err, cause)

	err = repo.Delete(ctx, "t1", "u1")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete", se.Op)

	err = repo.Toggle(ctx, "t1", "u1", false)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update", se.Op)
}

func TestUpdate_EmptyPatchIsNoop(t *testing.T) {
	s := &stubStorer{}
	require.NoError(t, newRepo(s).Update(context.Background(), "t1", "u1", tasksrepo.UpdateTask{}))
	assert.Empty(t, s.updates)
}

func TestUpdate_InvalidPatchRejected(t *testing.T) {
	s := &stubStorer{}
	err := newRepo(s).Update(context.Background(), "t1", "u1", tasksrepo.UpdateTask{
		Title: validation.StringPtr("   "),
	})
	ve, ok := schemas.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, schemas.MsgTitleEmpty, ve.Fields["title"])
	assert.Empty(t, s.updates)
}

func TestToggle_WritesNegationOfPrevious(t *testing.T) {
	s := &stubStorer{}
	repo := newRepo(s)
	ctx := context.Background()

	require.NoError(t, repo.Toggle(ctx, "t1", "u1", false))
	require.NoError(t, repo.Toggle(ctx, "t1", "u1", true))

	// Two toggles from the same stale read write the same value.
	require.NoError(t, repo.Toggle(ctx, "t1", "u1", true))

	require.Len(t, s.updates, 3)
	assert.True(t, *s.updates[0].IsCompleted)
	assert.False(t, *s.updates[1].IsCompleted)
	assert.False(t, *s.updates[2].IsCompleted)
	assert.Nil(t, s.updates[0].Title)
	assert.False(t, s.updates[0].DueDate.Set)
}

func TestDelete_PassesID(t *testing.T) {
	s := &stubStorer{}
	require.NoError(t, newRepo(s).Delete(context.Background(), "t9", "u1"))
	assert.Equal(t, []string{"t9"}, s.deletes)
}

type displayErr struct{}

func (displayErr) Error() string          { return "supabase: 401: JWT expired" }
func (displayErr) DisplayMessage() string { return "JWT expired" }

func TestStoreError_Message(t *testing.T) {
	se := &tasksrepo.StoreError{Op: "list", Err: displayErr{}}
	assert.Equal(t, "JWT expired", se.Message())

	se = &tasksrepo.StoreError{Op: "list", Err: errors.New("timeout")}
	assert.Equal(t, "timeout", se.Message())

	got, ok := tasksrepo.AsStoreError(fmt.Errorf("wrapped: %w", se))
	require.True(t, ok)
	assert.Same(t, se, got)
}
