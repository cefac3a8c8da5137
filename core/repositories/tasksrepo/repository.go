// Package tasksrepo is the task store client. Every operation is scoped to
// the acting user: writes and deletes filter on both the task id and the
// owner id, so a task belonging to someone else is never touched.
package tasksrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Storer is implemented by each backend (hosted REST, pgx, gorm).
type Storer interface {
	Create(ctx context.Context, input NewTask) (Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, id, userID string, changes TaskChanges) error
	Delete(ctx context.Context, id, userID string) error
}

// ErrMissingUser is returned when an operation is attempted without an
// acting user.
var ErrMissingUser = errors.New("acting user id is required")

// StoreError wraps a failure reported by the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("task store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Message is the failure text to show the user. Stores that can say more
// than their error string implement DisplayMessage.
func (e *StoreError) Message() string {
	var d interface{ DisplayMessage() string }
	if errors.As(e.Err, &d) {
		return d.DisplayMessage()
	}
	return e.Err.Error()
}

// AsStoreError unwraps err into a *StoreError.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create validates input and inserts it for userID. Nothing is sent to the
// store when validation fails.
func (r *Repository) Create(ctx context.Context, userID string, input CreateTask) (Task, error) {
	if userID == "" {
		return Task{}, ErrMissingUser
	}

	accepted, err := schemas.ValidateTask(input)
	if err != nil {
		return Task{}, err
	}

	task, err := r.storer.Create(ctx, NewTask{
		UserID:   userID,
		Title:    accepted.Title,
		Priority: accepted.Priority,
		DueDate:  accepted.DueDate,
	})
	if err != nil {
		return Task{}, &StoreError{Op: "create", Err: err}
	}

	r.log.InfoContext(ctx, "created task", "id", task.ID, "user_id", userID)
	return task, nil
}

// ListForUser returns userID's tasks, newest first. No tasks is an empty
// slice, not an error.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Task, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	tasks, err := r.storer.ListByUser(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Update applies the fields present in input to the task id owned by userID.
// A task that does not exist or belongs to another user is left alone and no
// error is reported.
func (r *Repository) Update(ctx context.Context, id, userID string, input UpdateTask) error {
	if userID == "" {
		return ErrMissingUser
	}

	changes, err := schemas.ValidateTaskPatch(input)
	if err != nil {
		return err
	}
	if changes.IsEmpty() {
		return nil
	}

	if err := r.storer.Update(ctx, id, userID, changes); err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// Toggle flips completion based on the caller's last known state. Two
// toggles issued from the same stale read both write the same value; the
// last write wins.
func (r *Repository) Toggle(ctx context.Context, id, userID string, previous bool) error {
	next := !previous
	return r.Update(ctx, id, userID, UpdateTask{IsCompleted: &next})
}

// Delete removes the task id owned by userID. Missing or foreign ids are a
// no-op.
func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	if userID == "" {
		return ErrMissingUser
	}

	if err := r.storer.Delete(ctx, id, userID); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}

	r.log.InfoContext(ctx, "deleted task", "id", id, "user_id", userID)
	return nil
}
