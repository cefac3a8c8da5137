package tasksrepobridge

import (
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/validation"
)

func MarshalToBridge(task tasksrepo.Task) Task {
	var due *string
	if task.DueDate != nil && *task.DueDate != "" {
		due = validation.StringPtr(validation.DatePart(*task.DueDate))
	}

	return Task{
		ID:          task.ID,
		Title:       task.Title,
		IsCompleted: task.IsCompleted,
		Priority:    string(task.PriorityOrDefault()),
		DueDate:     due,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MarshalListToBridge converts a list of core models to bridge models
func MarshalListToBridge(tasks []tasksrepo.Task) []Task {
	bridgeTasks := make([]Task, len(tasks))
	for i, task := range tasks {
		bridgeTasks[i] = MarshalToBridge(task)
	}
	return bridgeTasks
}

// MarshalCreateToRepository converts a parsed request body to repository
// input.
func MarshalCreateToRepository(task schemas.Task) tasksrepo.CreateTask {
	priority := string(task.Priority)
	input := tasksrepo.CreateTask{
		Title:    &task.Title,
		Priority: &priority,
	}
	if task.DueDate != nil {
		input.DueDate = schemas.Some(*task.DueDate)
	}
	return input
}

// MarshalUpdateToRepository converts a parsed partial update to repository
// input. Absent fields stay absent.
func MarshalUpdateToRepository(patch schemas.TaskPatch) tasksrepo.UpdateTask {
	input := tasksrepo.UpdateTask{
		Title:       patch.Title,
		DueDate:     patch.DueDate,
		IsCompleted: patch.IsCompleted,
	}
	if patch.Priority != nil {
		input.Priority = validation.StringPtr(string(*patch.Priority))
	}
	return input
}
