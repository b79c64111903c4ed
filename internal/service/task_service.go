package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/dto"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/repository"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound   = errors.New("任务不存在")
	ErrTaskInactive   = errors.New("任务已停用")
	ErrCallerNotAdmin = errors.New("操作者不是有效管理员")
)

// TaskService 任务管理接口
type TaskService interface {
	// CreateTask 创建任务；custom 类型记录创建管理员
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest, callerAdminID string) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error)
	UpdateTask(ctx context.Context, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	// DeactivateTask 停用任务（软删除）：退出后续轮换池，历史保留
	DeactivateTask(ctx context.Context, taskID string) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest, callerAdminID string) (*dto.TaskResponse, error) {
	taskType := req.TaskType
	if taskType == "" {
		taskType = model.TaskTypePredefined
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		TaskType:    taskType,
		IsActive:    true,
	}

	// custom 任务归属创建它的管理员
	if taskType == model.TaskTypeCustom {
		admin, err := s.repo.Admin.GetByID(ctx, callerAdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCallerNotAdmin
			}
			s.logger.Error("查询管理员失败", zap.Error(err))
			return nil, err
		}
		if !admin.IsActive {
			return nil, ErrCallerNotAdmin
		}
		task.CreatedBy = &admin.AdminID
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("任务已创建", zap.String("task_id", task.TaskID), zap.String("type", taskType))
	return buildTaskResponse(task), nil
}

func (s *taskService) GetTask(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	return buildTaskResponse(task), nil
}

func (s *taskService) ListTasks(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error) {
	tasks, total, err := s.repo.Task.List(ctx, req.IncludeInactive, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *buildTaskResponse(&tasks[i]))
	}
	return out, total, nil
}

func (s *taskService) UpdateTask(ctx context.Context, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.Error(err))
		return nil, err
	}
	return buildTaskResponse(task), nil
}

func (s *taskService) DeactivateTask(ctx context.Context, taskID string) error {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return err
	}
	if !task.IsActive {
		return ErrTaskInactive
	}

	if err := s.repo.Task.Deactivate(ctx, taskID); err != nil {
		s.logger.Error("停用任务失败", zap.Error(err))
		return err
	}

	s.logger.Info("任务已停用", zap.String("task_id", taskID))
	return nil
}

// buildTaskResponse 任务模型 → 响应 DTO
func buildTaskResponse(task *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          task.TaskID,
		Title:       task.Title,
		Description: task.Description,
		TaskType:    task.TaskType,
		IsActive:    task.IsActive,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.CreatedBy != nil {
		resp.CreatedBy = *task.CreatedBy
	}
	return resp
}
