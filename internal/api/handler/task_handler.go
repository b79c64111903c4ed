package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/dto"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/service"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// CreateTask 创建任务
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.CreateTask(c.Request.Context(), &req, GetAdminID(c))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// GetTask 获取任务详情
// GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "任务ID不能为空")
		return
	}

	task, err := h.taskSvc.GetTask(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// ListTasks 获取任务列表
// GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	tasks, total, err := h.taskSvc.ListTasks(c.Request.Context(), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OKPage(c, tasks, total, req.GetPage(), req.GetPageSize())
}

// UpdateTask 更新任务
// PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.UpdateTask(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// DeactivateTask 停用任务
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeactivateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "任务ID不能为空")
		return
	}

	if err := h.taskSvc.DeactivateTask(c.Request.Context(), id); err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTaskError 统一处理任务模块业务错误
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 12101, "任务不存在")
	case errors.Is(err, service.ErrTaskInactive):
		response.BadRequest(c, 12102, "任务已停用")
	case errors.Is(err, service.ErrCallerNotAdmin):
		response.Forbidden(c, 12103, "操作者不是有效管理员")
	default:
		response.InternalError(c)
	}
}
