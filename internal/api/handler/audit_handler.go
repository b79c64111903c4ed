package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/dto"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/service"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/response"
)

// AuditHandler 审计模块 HTTP 处理器
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListUserHistory 获取用户历史分配
// GET /api/v1/users/:id/history
func (h *AuditHandler) ListUserHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "用户ID不能为空")
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	entries, total, err := h.auditSvc.ListUserHistory(c.Request.Context(), id, &page)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	response.OKPage(c, entries, total, page.GetPage(), page.GetPageSize())
}

// ListTaskHistory 获取任务历史承担者
// GET /api/v1/tasks/:id/history
func (h *AuditHandler) ListTaskHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "任务ID不能为空")
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	entries, total, err := h.auditSvc.ListTaskHistory(c.Request.Context(), id, &page)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	response.OKPage(c, entries, total, page.GetPage(), page.GetPageSize())
}

// ListShuffleLogs 获取轮换日志
// GET /api/v1/shuffles
func (h *AuditHandler) ListShuffleLogs(c *gin.Context) {
	var req dto.ShuffleLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	logs, total, err := h.auditSvc.ListShuffleLogs(c.Request.Context(), &req)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// GetWeekSummary 获取某周分配与完成情况
// GET /api/v1/assignments
func (h *AuditHandler) GetWeekSummary(c *gin.Context) {
	var req dto.WeekAssignmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	summary, err := h.auditSvc.GetWeekSummary(c.Request.Context(), &req)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	response.OK(c, summary)
}

// handleAuditError 统一处理审计模块业务错误
func (h *AuditHandler) handleAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuditUserNotFound):
		response.NotFound(c, 14101, "用户不存在")
	case errors.Is(err, service.ErrAuditTaskNotFound):
		response.NotFound(c, 14102, "任务不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14103, "无效的日期区间")
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 14104, "无效的周起始时间")
	default:
		response.InternalError(c)
	}
}
