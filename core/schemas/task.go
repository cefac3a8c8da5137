package schemas

import (
	"strings"
	"unicode/utf8"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the accepted priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority reports whether s is exactly one of the accepted priorities.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

const (
	TitleMinLength = 3
	TitleMaxLength = 200
)

const (
	MsgRequired      = "Required"
	MsgTitleEmpty    = "Task title cannot be empty"
	MsgTitleTooShort = "Task title must be at least 3 characters"
	MsgTitleTooLong  = "Task title cannot exceed 200 characters"
	MsgPriorityEnum  = "Invalid enum value. Expected 'Low' | 'Medium' | 'High'"
)

// TaskFields is an unvalidated task candidate. A nil pointer means the field
// was not supplied.
type TaskFields struct {
	Title       *string
	Priority    *string
	DueDate     Optional[string]
	IsCompleted *bool
}

// Task is an accepted task record ready to be inserted.
type Task struct {
	Title    string
	Priority Priority
	DueDate  *string
}

// TaskPatch is an accepted partial update. Only non-nil (or Set) fields are
// applied by the store.
type TaskPatch struct {
	Title       *string
	Priority    *Priority
	DueDate     Optional[string]
	IsCompleted *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Priority == nil && !p.DueDate.Set && p.IsCompleted == nil
}

var taskTypes = map[string]string{
	"title":        "string",
	"priority":     "'Low' | 'Medium' | 'High'",
	"due_date":     "string",
	"is_completed": "boolean",
}

// ValidateTask applies the create rules: title is required, priority falls
// back to Low when absent.
func ValidateTask(f TaskFields) (Task, error) {
	fe := FieldErrors{}
	task := validateTask(f, fe)
	if err := result(fe); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ValidateTaskPatch applies the update rules: every field is optional but
// keeps its rule when present.
func ValidateTaskPatch(f TaskFields) (TaskPatch, error) {
	fe := FieldErrors{}
	patch := validateTaskPatch(f, fe)
	if err := result(fe); err != nil {
		return TaskPatch{}, err
	}
	return patch, nil
}

// ParseTask validates an untyped create record such as a decoded JSON body.
func ParseTask(record map[string]any) (Task, error) {
	fe := FieldErrors{}
	obj, bad, err := checkStructure(schemaTask, record, taskTypes, fe)
	if err != nil {
		return Task{}, err
	}

	f := taskFieldsFrom(obj, bad)
	task := validateTask(f, fe)
	if err := result(fe); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ParseTaskPatch validates an untyped partial update record.
func ParseTaskPatch(record map[string]any) (TaskPatch, error) {
	fe := FieldErrors{}
	obj, bad, err := checkStructure(schemaTaskUpdate, record, taskTypes, fe)
	if err != nil {
		return TaskPatch{}, err
	}

	f := taskFieldsFrom(obj, bad)
	if !bad["is_completed"] {
		if v, ok := obj["is_completed"].(bool); ok {
			f.IsCompleted = &v
		}
	}
	patch := validateTaskPatch(f, fe)
	if err := result(fe); err != nil {
		return TaskPatch{}, err
	}
	return patch, nil
}

func taskFieldsFrom(obj map[string]any, bad map[string]bool) TaskFields {
	f := TaskFields{
		Title:    stringPtr(obj, "title", bad),
		Priority: stringPtr(obj, "priority", bad),
	}
	if v, ok := obj["due_date"]; ok && !bad["due_date"] {
		switch d := v.(type) {
		case nil:
			f.DueDate = Null[string]()
		case string:
			if d == "" {
				f.DueDate = Null[string]()
			} else {
				f.DueDate = Some(d)
			}
		}
	}
	return f
}

func validateTask(f TaskFields, fe FieldErrors) Task {
	task := Task{Priority: PriorityLow}

	if f.Title == nil {
		fe.Add("title", MsgRequired)
	} else if title, msg := checkTitle(*f.Title); msg != "" {
		fe.Add("title", msg)
	} else {
		task.Title = title
	}

	if f.Priority != nil {
		p, ok := ParsePriority(*f.Priority)
		if !ok {
			fe.Add("priority", MsgPriorityEnum)
		} else {
			task.Priority = p
		}
	}

	task.DueDate = f.DueDate.Value
	return task
}

func validateTaskPatch(f TaskFields, fe FieldErrors) TaskPatch {
	var patch TaskPatch

	if f.Title != nil {
		if title, msg := checkTitle(*f.Title); msg != "" {
			fe.Add("title", msg)
		} else {
			patch.Title = &title
		}
	}

	if f.Priority != nil {
		p, ok := ParsePriority(*f.Priority)
		if !ok {
			fe.Add("priority", MsgPriorityEnum)
		} else {
			patch.Priority = &p
		}
	}

	patch.DueDate = f.DueDate
	patch.IsCompleted = f.IsCompleted
	return patch
}

// checkTitle trims s and returns it with the message of the first rule it
// breaks. Length counts characters, not bytes.
func checkTitle(s string) (string, string) {
	title := strings.TrimSpace(s)
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		return "", MsgTitleEmpty
	case n < TitleMinLength:
		return "", MsgTitleTooShort
	case n > TitleMaxLength:
		return "", MsgTitleTooLong
	}
	return title, ""
}
