package model

// SavedCalendar 已保存课表 — 对应 saved_calendars
//
// Key 为用户自选名称，每个 Key 只存在一条记录；保存即整体覆盖 Payload。
// Payload 内容为完整的选课快照（课表、选中事件、颜色、索引），结构见 dto.SavedCalendarPayload。
type SavedCalendar struct {
	Key         string `gorm:"type:varchar(128);primaryKey" json:"key"`
	ProgramCode string `gorm:"type:varchar(32);not null"    json:"program_code"`
	Year        int    `gorm:"type:smallint;not null"       json:"year"`
	Season      string `gorm:"type:varchar(16);not null"    json:"season"` // Spring | Autumn
	Payload     JSONB  `gorm:"type:jsonb;not null"          json:"payload"`
	BaseModel
}

// TableName 指定表名
func (SavedCalendar) TableName() string { return "saved_calendars" }
