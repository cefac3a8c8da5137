package tasksrepobridge

// Task is a task as the API returns it. Priority is never empty and DueDate
// is a calendar date or null.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	IsCompleted bool    `json:"is_completed"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	UserID      string  `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
}

// TaskList is the body of GET /tasks. EmptyState is set when there are no
// tasks.
type TaskList struct {
	Tasks      []Task `json:"tasks"`
	EmptyState string `json:"empty_state,omitempty"`
}

// toggleInput is the body of POST /tasks/{task_id}/toggle: the completion
// state the caller last saw.
type toggleInput struct {
	IsCompleted *bool `json:"is_completed"`
}
