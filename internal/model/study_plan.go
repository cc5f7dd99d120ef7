package model

// StudyPlan 学习计划缓存表 — 对应 study_plans
//
// PlanID 形如 "<专业代码>-<入学年>-<查询年>"；JSONData 保存上游返回的原始计划树，
// 命中缓存时直接反序列化，不再请求上游。
type StudyPlan struct {
	PlanID      string `gorm:"type:varchar(64);primaryKey" json:"plan_id"`
	ProgramCode string `gorm:"type:varchar(32);not null"   json:"program_code"`
	StudyYear   int    `gorm:"type:smallint;not null"      json:"study_year"`
	JSONData    JSONB  `gorm:"type:jsonb;not null"         json:"json_data"`
	BaseModel
}

// TableName 指定表名
func (StudyPlan) TableName() string { return "study_plans" }
