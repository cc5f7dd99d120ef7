package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportICS 将课表快照导出为 iCalendar 文件
// POST /api/v1/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	filename, content := h.exportSvc.ExportICS(&req)
	if content == "" {
		response.BadRequest(c, 17001, "课表中没有可解析的教学活动")
		return
	}

	response.File(c, response.ContentTypeICS, filename, []byte(content))
}

// ExportExcel 将课表快照导出为 Excel 周课表
// POST /api/v1/export/excel?language=no
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	language := c.DefaultQuery("language", "no")

	filename, data, err := h.exportSvc.ExportExcel(&req, language)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, response.ContentTypeXLSX, filename, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportEmptyPlans):
		response.BadRequest(c, 17002, "没有可导出的课表")
	case errors.Is(err, service.ErrExportNoEvents):
		response.BadRequest(c, 17001, "课表中没有可解析的教学活动")
	default:
		response.InternalError(c)
	}
}
