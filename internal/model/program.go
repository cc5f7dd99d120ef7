package model

// Program 专业目录表 — 对应 programs
//
// ProgramID 带语言后缀（如 "MTDT_no" / "MTDT_en"），StudyProgCode 为裸专业代码。
type Program struct {
	ProgramID     string `gorm:"type:varchar(64);primaryKey"  json:"programid"`
	StudyProgCode string `gorm:"type:varchar(32);not null"    json:"studyprogcode"`
	Title         string `gorm:"type:varchar(255);not null"   json:"title"`
	Years         int    `gorm:"type:smallint;not null;default:5" json:"years"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }
