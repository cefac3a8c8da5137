// Package taskboard is the task view's controller for one signed-in user. It
// owns the displayed list and the add/edit draft, and turns store failures
// into a message instead of returning them to the renderer.
//
// A Board is not safe for concurrent use.
package taskboard

import (
	"context"
	"errors"
	"strings"

	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/jrazmi/flowdesk/sdk/validation"
)

const (
	EmptyStateMessage = "No tasks yet. Add one above!"
	NoDueDateLabel    = "No due date"
)

// Tasks is the task store client as the board uses it.
type Tasks interface {
	Create(ctx context.Context, userID string, input tasksrepo.CreateTask) (tasksrepo.Task, error)
	ListForUser(ctx context.Context, userID string) ([]tasksrepo.Task, error)
	Update(ctx context.Context, id, userID string, input tasksrepo.UpdateTask) error
	Toggle(ctx context.Context, id, userID string, previous bool) error
	Delete(ctx context.Context, id, userID string) error
}

// Draft is the add/edit line. DueDate is a calendar date or "".
type Draft struct {
	Title    string
	Priority schemas.Priority
	DueDate  string
}

func emptyDraft() Draft {
	return Draft{Priority: schemas.PriorityLow}
}

type Board struct {
	log    *logger.Logger
	tasks  Tasks
	userID string

	list    []tasksrepo.Task
	draft   Draft
	editing *tasksrepo.Task
	message string
	errs    schemas.FieldErrors
}

func NewBoard(log *logger.Logger, tasks Tasks, userID string) *Board {
	return &Board{
		log:    log,
		tasks:  tasks,
		userID: userID,
		list:   []tasksrepo.Task{},
		draft:  emptyDraft(),
		errs:   schemas.FieldErrors{},
	}
}

func (b *Board) UserID() string { return b.userID }

// Tasks returns the displayed list, newest first.
func (b *Board) Tasks() []tasksrepo.Task { return b.list }

func (b *Board) Draft() Draft { return b.draft }

// Message is the last failure shown to the user, or "".
func (b *Board) Message() string { return b.message }

func (b *Board) FieldErrors() schemas.FieldErrors { return b.errs }

// Editing returns the task loaded into the draft, if any.
func (b *Board) Editing() (tasksrepo.Task, bool) {
	if b.editing == nil {
		return tasksrepo.Task{}, false
	}
	return *b.editing, true
}

// EmptyState returns the placeholder for an empty list, or "" when there are
// tasks to show.
func (b *Board) EmptyState() string {
	if len(b.list) == 0 {
		return EmptyStateMessage
	}
	return ""
}

func (b *Board) SetTitle(title string) {
	b.draft.Title = title
	b.errs.Clear("title")
}

func (b *Board) SetPriority(p schemas.Priority) {
	b.draft.Priority = p
	b.errs.Clear("priority")
}

func (b *Board) SetDueDate(date string) {
	b.draft.DueDate = date
	b.errs.Clear("due_date")
}

// StartEditing loads task into the draft. Submit then updates it instead of
// creating a new task.
func (b *Board) StartEditing(task tasksrepo.Task) {
	t := task
	b.editing = &t
	b.draft = Draft{
		Title:    task.Title,
		Priority: task.PriorityOrDefault(),
	}
	if task.DueDate != nil {
		b.draft.DueDate = validation.DatePart(*task.DueDate)
	}
	b.errs = schemas.FieldErrors{}
}

func (b *Board) CancelEditing() {
	b.editing = nil
	b.draft = emptyDraft()
	b.errs = schemas.FieldErrors{}
}

// Refresh reloads the list. On failure the previous list stays on screen.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.tasks.ListForUser(ctx, b.userID)
	if err != nil {
		b.fail(ctx, "refresh", err)
		return err
	}
	b.list = tasks
	b.message = ""
	return nil
}

// Submit creates a task from the draft, or updates the task being edited.
// An edit with an empty due date keeps the task's existing date.
func (b *Board) Submit(ctx context.Context) error {
	title := b.draft.Title
	priority := string(b.draft.Priority)
	input := tasksrepo.CreateTask{
		Title:    &title,
		Priority: &priority,
	}
	if d := strings.TrimSpace(b.draft.DueDate); d != "" {
		input.DueDate = schemas.Some(d)
	}

	var err error
	if b.editing != nil {
		err = b.tasks.Update(ctx, b.editing.ID, b.userID, input)
	} else {
		_, err = b.tasks.Create(ctx, b.userID, input)
	}
	if err != nil {
		b.fail(ctx, "submit", err)
		return err
	}

	b.editing = nil
	b.draft = emptyDraft()
	b.errs = schemas.FieldErrors{}
	return b.Refresh(ctx)
}

// Toggle flips the completion of the listed task id using its displayed
// state.
func (b *Board) Toggle(ctx context.Context, id string) error {
	task, ok := b.find(id)
	if !ok {
		return b.Refresh(ctx)
	}
	if err := b.tasks.Toggle(ctx, id, b.userID, task.IsCompleted); err != nil {
		b.fail(ctx, "toggle", err)
		return err
	}
	return b.Refresh(ctx)
}

func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.tasks.Delete(ctx, id, b.userID); err != nil {
		b.fail(ctx, "delete", err)
		return err
	}
	if b.editing != nil && b.editing.ID == id {
		b.CancelEditing()
	}
	return b.Refresh(ctx)
}

func (b *Board) find(id string) (tasksrepo.Task, bool) {
	for _, t := range b.list {
		if t.ID == id {
			return t, true
		}
	}
	return tasksrepo.Task{}, false
}

func (b *Board) fail(ctx context.Context, op string, err error) {
	if ve, ok := schemas.AsValidationError(err); ok {
		for field, msg := range ve.Fields {
			b.errs.Add(field, msg)
		}
		return
	}

	b.log.ErrorContext(ctx, "task board", "op", op, "user_id", b.userID, "err", err)
	if se, ok := tasksrepo.AsStoreError(err); ok {
		b.message = se.Message()
		return
	}
	if errors.Is(err, tasksrepo.ErrMissingUser) {
		b.message = "You must be signed in."
		return
	}
	b.message = err.Error()
}

// PriorityLabel is the badge text for task. A missing priority reads as Low.
func PriorityLabel(task tasksrepo.Task) string {
	return string(task.PriorityOrDefault())
}

// DueLabel is the due date as a calendar date, or NoDueDateLabel.
func DueLabel(task tasksrepo.Task) string {
	if task.DueDate == nil || *task.DueDate == "" {
		return NoDueDateLabel
	}
	return validation.DatePart(*task.DueDate)
}
