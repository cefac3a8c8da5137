// Package tasksrepobridge exposes the task store client over HTTP.
package tasksrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrazmi/flowdesk/bridge/scaffolding/errs"
	"github.com/jrazmi/flowdesk/bridge/scaffolding/mid"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/core/usecases/taskboard"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

const MsgInvalidID = "Invalid task id"

// Config holds configuration for the task bridge
type Config struct {
	Log        *logger.Logger
	Repository *tasksrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the task routes. The group is expected to carry
// the authenticate middleware.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)

	group.GET("/tasks", b.httpList, cfg.Middleware...)
	group.POST("/tasks", b.httpCreate, cfg.Middleware...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
	group.PATCH("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
	group.POST("/tasks/{task_id}/toggle", b.httpToggle, cfg.Middleware...)
	group.DELETE("/tasks/{task_id}", b.httpDelete, cfg.Middleware...)
}

func taskID(r *http.Request) (string, error) {
	id := web.Param(r, "task_id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.NewFields(errs.MsgValidation, map[string]string{"task_id": MsgInvalidID})
	}
	return id, nil
}

func decodeRecord(r *http.Request) (map[string]any, error) {
	record, err := web.DecodeRecord(r)
	if err != nil {
		return nil, errs.New(errs.InvalidArgument, err)
	}
	return record, nil
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	tasks, err := b.tasksRepository.ListForUser(ctx, mid.GetUserID(ctx))
	if err != nil {
		return errs.From(err)
	}

	list := TaskList{Tasks: MarshalListToBridge(tasks)}
	if len(tasks) == 0 {
		list.EmptyState = taskboard.EmptyStateMessage
	}
	return web.NewJSONResponse(list)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	record, err := decodeRecord(r)
	if err != nil {
		return errs.From(err)
	}

	parsed, err := schemas.ParseTask(record)
	if err != nil {
		return errs.From(err)
	}

	task, err := b.tasksRepository.Create(ctx, mid.GetUserID(ctx), MarshalCreateToRepository(parsed))
	if err != nil {
		return errs.From(err)
	}
	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

// httpUpdate applies a partial update. Ids that do not exist or belong to
// someone else still answer 204.
func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	id, err := taskID(r)
	if err != nil {
		return errs.From(err)
	}

	record, err := decodeRecord(r)
	if err != nil {
		return errs.From(err)
	}

	patch, err := schemas.ParseTaskPatch(record)
	if err != nil {
		return errs.From(err)
	}

	if err := b.tasksRepository.Update(ctx, id, mid.GetUserID(ctx), MarshalUpdateToRepository(patch)); err != nil {
		return errs.From(err)
	}
	return nil
}

func (b *bridge) httpToggle(ctx context.Context, r *http.Request) web.Encoder {
	id, err := taskID(r)
	if err != nil {
		return errs.From(err)
	}

	var input toggleInput
	if err := web.Decode(r, &input); err != nil && !errors.Is(err, web.ErrEmptyBody) {
		return errs.New(errs.InvalidArgument, err)
	}
	if input.IsCompleted == nil {
		return errs.NewFields(errs.MsgValidation, map[string]string{"is_completed": schemas.MsgRequired})
	}

	if err := b.tasksRepository.Toggle(ctx, id, mid.GetUserID(ctx), *input.IsCompleted); err != nil {
		return errs.From(err)
	}
	return nil
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	id, err := taskID(r)
	if err != nil {
		return errs.From(err)
	}

	if err := b.tasksRepository.Delete(ctx, id, mid.GetUserID(ctx)); err != nil {
		return errs.From(err)
	}
	return nil
}
