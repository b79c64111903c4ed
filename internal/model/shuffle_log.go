package model

import "time"

// ShuffleLog 轮换日志表 — 对应 shuffle_logs（纯审计日志）
// week_starting 唯一约束是并发轮换的串行化点：每周至多一次轮换
type ShuffleLog struct {
	ShuffleLogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shuffle_log_id"`
	ShuffledBy       *string   `gorm:"type:uuid"                                      json:"shuffled_by,omitempty"`
	TotalAssignments int       `gorm:"not null"                                       json:"total_assignments"`
	WeekStarting     time.Time `gorm:"type:timestamptz;not null;uniqueIndex"          json:"week_starting"`
	Notes            string    `gorm:"type:text;not null;default:''"                  json:"notes,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Shuffler *Admin `gorm:"foreignKey:ShuffledBy;references:AdminID" json:"shuffler,omitempty"`
}

// TableName 指定表名
func (ShuffleLog) TableName() string { return "shuffle_logs" }
