package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnusgiverin/timeplaner/internal/model"
)

// StudyPlanRepository 学习计划缓存数据访问接口
type StudyPlanRepository interface {
	GetByID(ctx context.Context, planID string) (*model.StudyPlan, error)
	Upsert(ctx context.Context, plan *model.StudyPlan) error
}

type studyPlanRepo struct {
	db *gorm.DB
}

// NewStudyPlanRepo 创建 StudyPlanRepository 实例
func NewStudyPlanRepo(db *gorm.DB) StudyPlanRepository {
	return &studyPlanRepo{db: db}
}

func (r *studyPlanRepo) GetByID(ctx context.Context, planID string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Upsert 写入缓存，同一 plan_id 覆盖旧 JSON
func (r *studyPlanRepo) Upsert(ctx context.Context, plan *model.StudyPlan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"json_data", "updated_at"}),
		}).
		Create(plan).Error
}
