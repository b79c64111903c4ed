package model

// 任务类型
const (
	TaskTypePredefined = "predefined"
	TaskTypeCustom     = "custom"
)

// Task 任务表 — 对应 tasks
// 软删除仅通过 is_active=false；历史引用存在时行永不物理删除
type Task struct {
	TaskID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string  `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	TaskType    string  `gorm:"type:varchar(20);not null;default:'predefined'" json:"task_type"` // predefined | custom
	CreatedBy   *string `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	IsActive    bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Creator *Admin `gorm:"foreignKey:CreatedBy;references:AdminID" json:"creator,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
