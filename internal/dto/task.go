package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string `json:"title"       binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	TaskType    string `json:"task_type"   binding:"omitempty,oneof=predefined custom"`
}

// UpdateTaskRequest 更新任务请求（仅标题/描述可改）
type UpdateTaskRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// TaskListRequest 任务列表查询参数
type TaskListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
	PaginationRequest
}

// ── 响应 ──

// TaskResponse 任务响应
type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TaskType    string `json:"task_type"`
	CreatedBy   string `json:"created_by,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskBrief 任务简要信息（嵌入分配/历史响应）
type TaskBrief struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	TaskType string `json:"task_type"`
}
