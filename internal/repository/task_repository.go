package repository

import (
	"context"

	"gorm.io/gorm"

	"taskpilot/internal/model"
)

// TaskFilter narrows and pages a task listing. Empty Status/Priority
// mean no filter.
type TaskFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

// TaskRepository defines task persistence operations. Every method is
// scoped by the owning user's id.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id, userID uint) (*model.Task, error)
	List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, int64, error)
	UpdateFields(ctx context.Context, id, userID uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id, userID uint) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns one page of tasks ordered by created_at descending, plus
// the total count matching the same filters unpaginated.
func (r *taskRepository) List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, int64, error) {
	var total int64
	if err := r.scoped(ctx, userID, filter).
		Model(&model.Task{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	if err := r.scoped(ctx, userID, filter).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// UpdateFields applies a partial update built from whichever fields the
// caller provided. GORM refreshes updated_at on its own.
func (r *taskRepository) UpdateFields(ctx context.Context, id, userID uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields).Error
}

// Delete removes the row and reports how many rows matched, so callers
// can distinguish a miss from a successful delete.
func (r *taskRepository) Delete(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	return res.RowsAffected, res.Error
}

func (r *taskRepository) scoped(ctx context.Context, userID uint, filter TaskFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	return q
}
