package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=2,max=150"`
	Name     string `json:"name"     binding:"required,min=1,max=100"`
}

// CreateAdminRequest 任命管理员请求
type CreateAdminRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	RegisteredOnly bool `form:"registered_only"`
	PaginationRequest
}

// ── 响应 ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	IsRegistered bool    `json:"is_registered"`
	RegisteredAt *string `json:"registered_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// AdminResponse 管理员信息响应
type AdminResponse struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	IsActive bool          `json:"is_active"`
	User     *UserResponse `json:"user,omitempty"`
}

// UserBrief 用户简要信息（嵌入分配/历史响应）
type UserBrief struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
