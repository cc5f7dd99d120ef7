package model

// Course 课程目录表 — 对应 courses
type Course struct {
	CourseID    string `gorm:"type:varchar(32);primaryKey" json:"courseid"`
	CourseName  string `gorm:"type:varchar(255);not null"  json:"coursename"`
	EnglishName string `gorm:"type:varchar(255)"           json:"englishname,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
