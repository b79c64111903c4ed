package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, includeInactive bool, offset, limit int) ([]model.Task, int64, error)
	// ListActive 返回全部启用任务（轮换资格集）
	ListActive(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	// Deactivate 软删除：仅置 is_active=false，行永不物理删除
	Deactivate(ctx context.Context, id string) error
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) List(ctx context.Context, includeInactive bool, offset, limit int) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Task{})
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("title ASC").
		Find(&tasks).Error
	return tasks, total, err
}

func (r *taskRepo) ListActive(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("task_id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Where("task_id = ?", task.TaskID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"is_active":   task.IsActive,
		}).Error
}

func (r *taskRepo) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("task_id = ?", id).
		Update("is_active", false).Error
}
