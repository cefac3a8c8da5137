// Package taskspgxstore keeps tasks in Postgres through a pgx pool.
package taskspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

const taskColumns = `id::text AS id, title, is_completed, priority, due_date::text AS due_date, user_id::text AS user_id, created_at`

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	query := `INSERT INTO tasks (title, is_completed, priority, due_date, user_id)
		VALUES (@title, FALSE, @priority, @due_date, @user_id)
		RETURNING ` + taskColumns

	args := pgx.NamedArgs{
		"title":    input.Title,
		"priority": string(input.Priority),
		"due_date": input.DueDate,
		"user_id":  input.UserID,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return task, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return tasks, nil
}

// matchable reports whether id could name a row. Postgres rejects a
// malformed uuid outright, while a missing task is a no-op.
func matchable(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) Update(ctx context.Context, id, userID string, changes tasksrepo.TaskChanges) error {
	if !matchable(id) {
		return nil
	}

	var sets []string
	args := pgx.NamedArgs{"id": id, "user_id": userID}

	if changes.Title != nil {
		sets = append(sets, "title = @title")
		args["title"] = *changes.Title
	}
	if changes.Priority != nil {
		sets = append(sets, "priority = @priority")
		args["priority"] = string(*changes.Priority)
	}
	if changes.DueDate.Set {
		sets = append(sets, "due_date = @due_date")
		args["due_date"] = changes.DueDate.Value
	}
	if changes.IsCompleted != nil {
		sets = append(sets, "is_completed = @is_completed")
		args["is_completed"] = *changes.IsCompleted
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = @id AND user_id = @user_id`, strings.Join(sets, ", "))

	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	s.log.DebugContext(ctx, "update task", "id", id, "rows", tag.RowsAffected())
	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID string) error {
	if !matchable(id) {
		return nil
	}

	query := `DELETE FROM tasks WHERE id = @id AND user_id = @user_id`

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	s.log.DebugContext(ctx, "delete task", "id", id, "rows", tag.RowsAffected())
	return nil
}
