package handler

import "github.com/magnusgiverin/timeplaner/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog       *CatalogHandler
	StudyPlan     *StudyPlanHandler
	SemesterPlan  *SemesterPlanHandler
	Calendar      *CalendarHandler
	Selection     *SelectionHandler
	SavedCalendar *SavedCalendarHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Catalog:       NewCatalogHandler(svc.Catalog),
		StudyPlan:     NewStudyPlanHandler(svc.StudyPlan),
		SemesterPlan:  NewSemesterPlanHandler(svc.SemesterPlan),
		Calendar:      NewCalendarHandler(svc.Calendar),
		Selection:     NewSelectionHandler(svc.Selection),
		SavedCalendar: NewSavedCalendarHandler(svc.SavedCalendar, svc.Export),
		Export:        NewExportHandler(svc.Export),
	}
}
