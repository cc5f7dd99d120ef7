package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Program       ProgramRepository
	Course        CourseRepository
	StudyPlan     StudyPlanRepository
	SavedCalendar SavedCalendarRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Program:       NewProgramRepo(db),
		Course:        NewCourseRepo(db),
		StudyPlan:     NewStudyPlanRepo(db),
		SavedCalendar: NewSavedCalendarRepo(db),
	}
}
