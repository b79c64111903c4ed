package model

import "time"

// User 用户表 — 对应 users
// 身份信息（username）创建后不可变；仅 is_registered/registered_at 可更新
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"         json:"username"`
	Name         string     `gorm:"type:varchar(100);not null"                     json:"name"`
	IsRegistered bool       `gorm:"not null;default:false"                         json:"is_registered"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// Admin 管理员表 — 对应 admins（活跃管理员上限 5 人）
type Admin struct {
	AdminID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
