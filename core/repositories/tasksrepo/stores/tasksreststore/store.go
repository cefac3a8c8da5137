// Package tasksreststore keeps tasks in the hosted database through its REST
// interface. Requests run as the user whose access token is in the context.
package tasksreststore

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

const tablePath = "/rest/v1/tasks"

type Store struct {
	log    *logger.Logger
	client *supabase.Client
}

func NewStore(log *logger.Logger, client *supabase.Client) *Store {
	return &Store{
		log:    log,
		client: client,
	}
}

// matchable reports whether id could name a row. The service rejects a
// malformed uuid filter, while a missing task is a no-op.
func matchable(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func eq(v string) string {
	return "eq." + v
}

type insertRow struct {
	Title       string             `json:"title"`
	IsCompleted bool               `json:"is_completed"`
	UserID      string             `json:"user_id"`
	Priority    tasksrepo.Priority `json:"priority"`
	DueDate     *string            `json:"due_date"`
}

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	var rows []tasksrepo.Task
	err := s.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   tablePath,
		Query:  url.Values{"select": {"*"}},
		Header: http.Header{"Prefer": {"return=representation"}},
		Body: insertRow{
			Title:       input.Title,
			IsCompleted: false,
			UserID:      input.UserID,
			Priority:    input.Priority,
			DueDate:     input.DueDate,
		},
	}, &rows)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	if len(rows) == 0 {
		return tasksrepo.Task{}, errors.New("insert returned no row")
	}
	return rows[0], nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]tasksrepo.Task, error) {
	var rows []tasksrepo.Task
	err := s.client.Do(ctx, supabase.Request{
		Method: http.MethodGet,
		Path:   tablePath,
		Query: url.Values{
			"select":  {"*"},
			"user_id": {eq(userID)},
			"order":   {"created_at.desc"},
		},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Update(ctx context.Context, id, userID string, changes tasksrepo.TaskChanges) error {
	if !matchable(id) {
		return nil
	}

	body := map[string]any{}
	if changes.Title != nil {
		body["title"] = *changes.Title
	}
	if changes.Priority != nil {
		body["priority"] = *changes.Priority
	}
	if changes.DueDate.Set {
		body["due_date"] = changes.DueDate.Value
	}
	if changes.IsCompleted != nil {
		body["is_completed"] = *changes.IsCompleted
	}

	return s.client.Do(ctx, supabase.Request{
		Method: http.MethodPatch,
		Path:   tablePath,
		Query: url.Values{
			"id":      {eq(id)},
			"user_id": {eq(userID)},
		},
		Header: http.Header{"Prefer": {"return=minimal"}},
		Body:   body,
	}, nil)
}

func (s *Store) Delete(ctx context.Context, id, userID string) error {
	if !matchable(id) {
		return nil
	}

	return s.client.Do(ctx, supabase.Request{
		Method: http.MethodDelete,
		Path:   tablePath,
		Query: url.Values{
			"id":      {eq(id)},
			"user_id": {eq(userID)},
		},
		Header: http.Header{"Prefer": {"return=minimal"}},
	}, nil)
}
