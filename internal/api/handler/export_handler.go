package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/service"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出某周分配 Excel
// GET /api/v1/export/assignments?week=2026-03-02
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	week := c.Query("week")
	if week == "" {
		response.BadRequest(c, 15001, "week 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekExcel(c.Request.Context(), week)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportUserCalendar 导出用户日历
// GET /api/v1/export/calendar/:user_id
func (h *ExportHandler) ExportUserCalendar(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.BadRequest(c, 15001, "用户ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportUserCalendar(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 15101, "无效的周起始时间")
	case errors.Is(err, service.ErrExportNoAssignments):
		response.NotFound(c, 15102, "该周暂无分配记录")
	case errors.Is(err, service.ErrExportUserNotFound):
		response.NotFound(c, 15103, "用户不存在")
	default:
		response.InternalError(c)
	}
}
