package service

import (
	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/repository"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
	"github.com/magnusgiverin/timeplaner/pkg/redis"
)

// Service 所有业务服务的聚合入口
type Service struct {
	Catalog       CatalogService
	StudyPlan     StudyPlanService
	SemesterPlan  SemesterPlanService
	Calendar      CalendarService
	Selection     SelectionService
	Export        ExportService
	SavedCalendar SavedCalendarService
}

// NewService 创建 Service 聚合
//
// cache 可为 nil：课表缓存降级直连上游，选课会话功能不可用。
func NewService(cfg *config.Config, repo *repository.Repository, client *upstream.Client, cache *redis.Client, logger *zap.Logger) *Service {
	exporter := NewExportService(logger)
	return &Service{
		Catalog:       NewCatalogService(&cfg.Catalog, repo, client, logger),
		StudyPlan:     NewStudyPlanService(client, repo.StudyPlan, logger),
		SemesterPlan:  NewSemesterPlanService(client, cache, logger),
		Calendar:      NewCalendarService(logger),
		Selection:     NewSelectionService(cache, logger),
		Export:        exporter,
		SavedCalendar: NewSavedCalendarService(repo.SavedCalendar, exporter, logger),
	}
}
