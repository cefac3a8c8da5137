// Package tasksgormstore keeps tasks in a gorm database (SQLite in local
// mode).
package tasksgormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"gorm.io/gorm"
)

type taskRecord struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Title       string    `gorm:"not null"`
	IsCompleted bool      `gorm:"not null;default:false"`
	Priority    string    `gorm:"not null;default:Low"`
	DueDate     *string   `gorm:"type:text"`
	UserID      string    `gorm:"not null;index:idx_tasks_user_created,priority:1"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_user_created,priority:2"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func (r taskRecord) toTask() tasksrepo.Task {
	p := tasksrepo.Priority(r.Priority)
	return tasksrepo.Task{
		ID:          r.ID,
		Title:       r.Title,
		IsCompleted: r.IsCompleted,
		Priority:    &p,
		DueDate:     r.DueDate,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
	}
}

type Store struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewStore(log *logger.Logger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Migrate creates or updates the tasks table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&taskRecord{})
}

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	rec := taskRecord{
		ID:       uuid.NewString(),
		Title:    input.Title,
		Priority: string(input.Priority),
		DueDate:  input.DueDate,
		UserID:   input.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return tasksrepo.Task{}, err
	}
	return rec.toTask(), nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]tasksrepo.Task, error) {
	var recs []taskRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("rowid DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]tasksrepo.Task, len(recs))
	for i, rec := range recs {
		tasks[i] = rec.toTask()
	}
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id, userID string, changes tasksrepo.TaskChanges) error {
	values := map[string]any{}
	if changes.Title != nil {
		values["title"] = *changes.Title
	}
	if changes.Priority != nil {
		values["priority"] = string(*changes.Priority)
	}
	if changes.DueDate.Set {
		values["due_date"] = changes.DueDate.Value
	}
	if changes.IsCompleted != nil {
		values["is_completed"] = *changes.IsCompleted
	}
	if len(values) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	s.log.DebugContext(ctx, "update task", "id", id, "rows", res.RowsAffected)
	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&taskRecord{})
	if res.Error != nil {
		return res.Error
	}
	s.log.DebugContext(ctx, "delete task", "id", id, "rows", res.RowsAffected)
	return nil
}
