package handler

import "github.com/shahjaival18-glitch/TaskShuffler/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Shuffle *ShuffleHandler
	Audit   *AuditHandler
	Task    *TaskHandler
	User    *UserHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shuffle: NewShuffleHandler(svc.Shuffle),
		Audit:   NewAuditHandler(svc.Audit),
		Task:    NewTaskHandler(svc.Task),
		User:    NewUserHandler(svc.User),
		Export:  NewExportHandler(svc.Export),
	}
}
