package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnusgiverin/timeplaner/internal/model"
)

// ProgramRepository 专业目录数据访问接口
type ProgramRepository interface {
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetByCode(ctx context.Context, studyProgCode string) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
	ListByLanguage(ctx context.Context, langSuffix string) ([]model.Program, error)
	UpsertAll(ctx context.Context, programs []model.Program) error
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("program_id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByCode(ctx context.Context, studyProgCode string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("study_prog_code = ?", studyProgCode).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Order("study_prog_code ASC").
		Find(&programs).Error
	return programs, err
}

// ListByLanguage 按 program_id 语言后缀筛选（如 "no" / "en"）
func (r *programRepo) ListByLanguage(ctx context.Context, langSuffix string) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Where("program_id LIKE ?", "%_"+langSuffix).
		Order("study_prog_code ASC").
		Find(&programs).Error
	return programs, err
}

// UpsertAll 批量写入目录，按主键冲突整行更新（目录同步用）
func (r *programRepo) UpsertAll(ctx context.Context, programs []model.Program) error {
	if len(programs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "program_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"study_prog_code", "title", "years", "updated_at"}),
		}).
		Create(&programs).Error
}
