package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
)

// ShuffleLogRepository 轮换日志数据访问接口（审计只读查询）
type ShuffleLogRepository interface {
	GetByWeek(ctx context.Context, week time.Time) (*model.ShuffleLog, error)
	ListRange(ctx context.Context, from, to time.Time, offset, limit int) ([]model.ShuffleLog, int64, error)
}

type shuffleLogRepo struct {
	db *gorm.DB
}

func NewShuffleLogRepo(db *gorm.DB) ShuffleLogRepository {
	return &shuffleLogRepo{db: db}
}

func (r *shuffleLogRepo) GetByWeek(ctx context.Context, week time.Time) (*model.ShuffleLog, error) {
	var log model.ShuffleLog
	err := r.db.WithContext(ctx).
		Where("week_starting = ?", week).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *shuffleLogRepo) ListRange(ctx context.Context, from, to time.Time, offset, limit int) ([]model.ShuffleLog, int64, error) {
	var logs []model.ShuffleLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ShuffleLog{})
	if !from.IsZero() {
		db = db.Where("week_starting >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("week_starting <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("week_starting DESC").
		Find(&logs).Error
	return logs, total, err
}
