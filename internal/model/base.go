package model

import "time"

// BaseModel 通用审计字段（可变业务模型嵌入）
// 注：TaskHistory 与 ShuffleLog 为纯追加表，不嵌入本结构
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
