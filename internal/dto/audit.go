package dto

// ── 审计模块 DTO ──

// WeekAssignmentsRequest 某周分配查询参数
// status 为空时返回全部；completed/pending 分别过滤
type WeekAssignmentsRequest struct {
	Week   string `form:"week"   binding:"required"`
	Status string `form:"status" binding:"omitempty,oneof=completed pending"`
}

// ShuffleLogListRequest 轮换日志区间查询参数
type ShuffleLogListRequest struct {
	From string `form:"from" binding:"omitempty"`
	To   string `form:"to"   binding:"omitempty"`
	PaginationRequest
}

// ── 响应 ──

// HistoryEntryResponse 历史条目响应
type HistoryEntryResponse struct {
	ID           string     `json:"id"`
	AssignedWeek string     `json:"assigned_week"`
	Task         *TaskBrief `json:"task,omitempty"`
	User         *UserBrief `json:"user,omitempty"`
}

// ShuffleLogResponse 轮换日志响应
type ShuffleLogResponse struct {
	ID               string `json:"id"`
	WeekStarting     string `json:"week_starting"`
	TotalAssignments int    `json:"total_assignments"`
	ShuffledBy       string `json:"shuffled_by,omitempty"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// WeekSummaryResponse 某周完成情况摘要
type WeekSummaryResponse struct {
	WeekStarting string               `json:"week_starting"`
	Total        int                  `json:"total"`
	Completed    int                  `json:"completed"`
	Pending      int                  `json:"pending"`
	Assignments  []AssignmentResponse `json:"assignments"`
}
