package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
)

// HistoryRepository 分配历史数据访问接口（纯追加表，只读查询）
// 历史行只在轮换事务中镜像写入（见 ShuffleRunRepository）
type HistoryRepository interface {
	// ListAll 全量历史快照，按 assigned_week 倒序；轮换引擎的唯一输入
	ListAll(ctx context.Context) ([]model.TaskHistory, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.TaskHistory, int64, error)
	ListByTask(ctx context.Context, taskID string, offset, limit int) ([]model.TaskHistory, int64, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) ListAll(ctx context.Context) ([]model.TaskHistory, error) {
	var histories []model.TaskHistory
	err := r.db.WithContext(ctx).
		Order("assigned_week DESC, task_id ASC").
		Find(&histories).Error
	return histories, err
}

func (r *historyRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.TaskHistory, int64, error) {
	var histories []model.TaskHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TaskHistory{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Task").Preload("User").
		Offset(offset).Limit(limit).
		Order("assigned_week DESC").
		Find(&histories).Error
	return histories, total, err
}

func (r *historyRepo) ListByTask(ctx context.Context, taskID string, offset, limit int) ([]model.TaskHistory, int64, error) {
	var histories []model.TaskHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TaskHistory{}).
		Where("task_id = ?", taskID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Task").Preload("User").
		Offset(offset).Limit(limit).
		Order("assigned_week DESC").
		Find(&histories).Error
	return histories, total, err
}
