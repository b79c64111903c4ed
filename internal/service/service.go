package service

import (
	"go.uber.org/zap"

	"github.com/shahjaival18-glitch/TaskShuffler/config"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/repository"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Shuffle ShuffleService
	Audit   AuditService
	Task    TaskService
	User    UserService
	Export  ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Shuffle: NewShuffleService(cfg, repo, cache, logger),
		Audit:   NewAuditService(cfg, repo, logger),
		Task:    NewTaskService(repo, logger),
		User:    NewUserService(repo, logger),
		Export:  NewExportService(cfg, repo, logger),
	}
}
