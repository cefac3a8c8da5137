package tasksrepo

import (
	"time"

	"github.com/jrazmi/flowdesk/core/schemas"
)

type Priority = schemas.Priority

const (
	PriorityLow    = schemas.PriorityLow
	PriorityMedium = schemas.PriorityMedium
	PriorityHigh   = schemas.PriorityHigh
)

// Task is one user-owned to-do item as the store returns it. Priority may be
// nil on rows written before it had a default.
type Task struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	Priority    *Priority `json:"priority" db:"priority"`
	DueDate     *string   `json:"due_date" db:"due_date"`
	UserID      string    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PriorityOrDefault resolves a missing priority to Low.
func (t Task) PriorityOrDefault() Priority {
	if t.Priority == nil || *t.Priority == "" {
		return PriorityLow
	}
	return *t.Priority
}

// CreateTask is the unvalidated candidate handed to Repository.Create.
type CreateTask = schemas.TaskFields

// UpdateTask is the unvalidated partial update handed to Repository.Update.
type UpdateTask = schemas.TaskFields

// NewTask is an accepted insert, already validated and owned by UserID.
type NewTask struct {
	UserID   string
	Title    string
	Priority Priority
	DueDate  *string
}

// TaskChanges is an accepted partial update. Stores apply only the fields
// that are set.
type TaskChanges = schemas.TaskPatch
