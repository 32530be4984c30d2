package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

// Listing defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// CreateTaskInput carries validated fields for task creation. Empty
// Status/Priority take their defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial update: nil means "leave unchanged".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

// ListTasksInput carries listing filters and pagination. Status and
// Priority accept "all" or empty for no filter.
type ListTasksInput struct {
	Status   string
	Priority string
	Page     int
	Limit    int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// TaskService owns the per-user task lifecycle. Every operation is
// scoped to the calling user's id; a foreign task is indistinguishable
// from a missing one.
type TaskService interface {
	Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, userID uint, in ListTasksInput) ([]model.Task, *Pagination, error)
	Get(ctx context.Context, id, userID uint) (*model.Task, error)
	Update(ctx context.Context, id, userID uint, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, id, userID uint) error
}

type taskService struct {
	tasks repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

// Create inserts a task owned by userID, applying field defaults.
func (s *taskService) Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error) {
	task := &model.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns one page of the user's tasks, newest first, with totals
// computed over the same filters.
func (s *taskService) List(ctx context.Context, userID uint, in ListTasksInput) ([]model.Task, *Pagination, error) {
	page := in.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	filter := repository.TaskFilter{
		Status:   normalizeFilter(in.Status),
		Priority: normalizeFilter(in.Priority),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	tasks, total, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list tasks: %w", err)
	}

	pagination := &Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
	return tasks, pagination, nil
}

// Get fetches one task by id, scoped to userID.
func (s *taskService) Get(ctx context.Context, id, userID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// Update applies only the provided fields and returns the updated row.
func (s *taskService) Update(ctx context.Context, id, userID uint, in UpdateTaskInput) (*model.Task, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateFields(ctx, id, userID, fields); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.Get(ctx, id, userID)
}

// Delete removes the task when it exists and is owned by userID.
func (s *taskService) Delete(ctx context.Context, id, userID uint) error {
	affected, err := s.tasks.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (in UpdateTaskInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	return fields
}

func normalizeFilter(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
