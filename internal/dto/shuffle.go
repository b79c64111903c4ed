package dto

// ── 轮换模块 DTO ──

// RunShuffleRequest 执行每周轮换请求
// week_starting 接受 RFC3339 或 2006-01-02；服务端归一化到周一零点
type RunShuffleRequest struct {
	WeekStarting string `json:"week_starting" binding:"required"`
	Notes        string `json:"notes"         binding:"omitempty,max=500"`
}

// ── 响应 ──

// ShuffleResultResponse 轮换结果响应
type ShuffleResultResponse struct {
	ShuffleLogID     string               `json:"shuffle_log_id"`
	WeekStarting     string               `json:"week_starting"`
	TotalAssignments int                  `json:"total_assignments"`
	Warnings         []string             `json:"warnings,omitempty"`
	Assignments      []AssignmentResponse `json:"assignments"`
}

// AssignmentResponse 单条分配响应
type AssignmentResponse struct {
	ID           string     `json:"id"`
	WeekStarting string     `json:"week_starting"`
	IsCompleted  bool       `json:"is_completed"`
	CompletedAt  *string    `json:"completed_at,omitempty"`
	Task         *TaskBrief `json:"task,omitempty"`
	User         *UserBrief `json:"user,omitempty"`
}

// CompleteAssignmentResponse 完成标记响应
type CompleteAssignmentResponse struct {
	ID          string `json:"id"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at"`
}
