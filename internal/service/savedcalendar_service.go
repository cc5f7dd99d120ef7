package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/model"
	"github.com/magnusgiverin/timeplaner/internal/repository"
)

// ── 已保存课表模块业务错误 ──

var (
	ErrSavedCalendarNotFound   = errors.New("保存的课表不存在")
	ErrSavedCalendarEmptyKey   = errors.New("课表名称不能为空")
	ErrSavedCalendarCorrupted  = errors.New("保存的课表数据已损坏")
	ErrSavedCalendarNoSelected = errors.New("保存的课表中没有选中的课堂")
)

// SavedCalendarService 已保存课表业务接口
type SavedCalendarService interface {
	// Save 保存课表快照，同名整体覆盖
	Save(ctx context.Context, req *dto.SaveCalendarRequest) (*dto.SavedCalendarResponse, error)
	Get(ctx context.Context, key string) (*dto.SavedCalendarResponse, error)
	List(ctx context.Context) ([]dto.SavedCalendarSummary, error)
	Delete(ctx context.Context, key string) error
	// ExportICS 将保存的课表直接导出为 iCalendar，供订阅端点使用
	ExportICS(ctx context.Context, key, language string) (filename, content string, err error)
}

type savedCalendarService struct {
	repo     repository.SavedCalendarRepository
	exporter ExportService
	logger   *zap.Logger
}

// NewSavedCalendarService 创建 SavedCalendarService 实例
func NewSavedCalendarService(repo repository.SavedCalendarRepository, exporter ExportService, logger *zap.Logger) SavedCalendarService {
	return &savedCalendarService{repo: repo, exporter: exporter, logger: logger}
}

func (s *savedCalendarService) Save(ctx context.Context, req *dto.SaveCalendarRequest) (*dto.SavedCalendarResponse, error) {
	if req.Key == "" {
		return nil, ErrSavedCalendarEmptyKey
	}

	raw, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, err
	}
	record := &model.SavedCalendar{
		Key:         req.Key,
		ProgramCode: req.Payload.State.ProgramCode,
		Year:        req.Payload.State.Year,
		Season:      req.Payload.State.Season,
		Payload:     model.JSONB(raw),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return &dto.SavedCalendarResponse{
		Key:         req.Key,
		ProgramCode: record.ProgramCode,
		Year:        record.Year,
		Season:      record.Season,
		Payload:     req.Payload,
		UpdatedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

func (s *savedCalendarService) Get(ctx context.Context, key string) (*dto.SavedCalendarResponse, error) {
	record, err := s.repo.GetByKey(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSavedCalendarNotFound
	}
	if err != nil {
		return nil, err
	}

	var payload dto.SavedCalendarPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		s.logger.Error("保存的课表快照反序列化失败", zap.String("key", key), zap.Error(err))
		return nil, ErrSavedCalendarCorrupted
	}

	return &dto.SavedCalendarResponse{
		Key:         record.Key,
		ProgramCode: record.ProgramCode,
		Year:        record.Year,
		Season:      record.Season,
		Payload:     payload,
		UpdatedAt:   record.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *savedCalendarService) List(ctx context.Context) ([]dto.SavedCalendarSummary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SavedCalendarSummary, 0, len(records))
	for _, r := range records {
		out = append(out, dto.SavedCalendarSummary{
			Key:         r.Key,
			ProgramCode: r.ProgramCode,
			Year:        r.Year,
			Season:      r.Season,
			UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *savedCalendarService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *savedCalendarService) ExportICS(ctx context.Context, key, language string) (string, string, error) {
	saved, err := s.Get(ctx, key)
	if err != nil {
		return "", "", err
	}

	plans := SelectedPlans(saved.Payload.State)
	if len(plans) == 0 {
		return "", "", ErrSavedCalendarNoSelected
	}

	filename, content := s.exporter.ExportICS(&dto.ExportRequest{
		Plans:       plans,
		ProgramCode: saved.ProgramCode,
		Year:        saved.Year,
		Season:      saved.Season,
		Language:    language,
	})
	if content == "" {
		return "", "", ErrSavedCalendarNoSelected
	}
	return filename, content, nil
}
