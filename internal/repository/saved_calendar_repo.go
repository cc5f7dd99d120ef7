package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnusgiverin/timeplaner/internal/model"
)

// SavedCalendarRepository 已保存课表数据访问接口
type SavedCalendarRepository interface {
	GetByKey(ctx context.Context, key string) (*model.SavedCalendar, error)
	List(ctx context.Context) ([]model.SavedCalendar, error)
	Upsert(ctx context.Context, cal *model.SavedCalendar) error
	Delete(ctx context.Context, key string) error
}

type savedCalendarRepo struct {
	db *gorm.DB
}

// NewSavedCalendarRepo 创建 SavedCalendarRepository 实例
func NewSavedCalendarRepo(db *gorm.DB) SavedCalendarRepository {
	return &savedCalendarRepo{db: db}
}

func (r *savedCalendarRepo) GetByKey(ctx context.Context, key string) (*model.SavedCalendar, error) {
	var cal model.SavedCalendar
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *savedCalendarRepo) List(ctx context.Context) ([]model.SavedCalendar, error) {
	var cals []model.SavedCalendar
	err := r.db.WithContext(ctx).
		Select("key", "program_code", "year", "season", "created_at", "updated_at").
		Order("updated_at DESC").
		Find(&cals).Error
	return cals, err
}

// Upsert 同 key 整条覆盖（与浏览器端 localStorage.setItem 语义一致）
func (r *savedCalendarRepo) Upsert(ctx context.Context, cal *model.SavedCalendar) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"program_code", "year", "season", "payload", "updated_at"}),
		}).
		Create(cal).Error
}

func (r *savedCalendarRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.SavedCalendar{}).Error
}
