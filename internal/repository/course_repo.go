package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnusgiverin/timeplaner/internal/model"
)

// CourseRepository 课程目录数据访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Search(ctx context.Context, query string, limit int) ([]model.Course, error)
	UpsertAll(ctx context.Context, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("course_id ASC").
		Find(&courses).Error
	return courses, err
}

// Search 按课程代码或名称前缀匹配（课程搜索框用）
func (r *courseRepo) Search(ctx context.Context, query string, limit int) ([]model.Course, error) {
	if limit <= 0 {
		limit = 20
	}
	var courses []model.Course
	pattern := query + "%"
	err := r.db.WithContext(ctx).
		Where("course_id ILIKE ? OR course_name ILIKE ?", pattern, pattern).
		Order("course_id ASC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

// UpsertAll 批量写入目录，按主键冲突整行更新（目录同步用）
func (r *courseRepo) UpsertAll(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"course_name", "english_name", "updated_at"}),
		}).
		Create(&courses).Error
}
