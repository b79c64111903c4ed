package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Admin      AdminRepository
	Task       TaskRepository
	Assignment AssignmentRepository
	History    HistoryRepository
	ShuffleLog ShuffleLogRepository
	ShuffleRun ShuffleRunRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Admin:      NewAdminRepo(db),
		Task:       NewTaskRepo(db),
		Assignment: NewAssignmentRepo(db),
		History:    NewHistoryRepo(db),
		ShuffleLog: NewShuffleLogRepo(db),
		ShuffleRun: NewShuffleRunRepo(db),
	}
}
