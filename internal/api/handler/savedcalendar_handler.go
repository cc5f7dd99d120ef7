package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// SavedCalendarHandler 已保存课表模块 HTTP 处理器
type SavedCalendarHandler struct {
	savedCalendarSvc service.SavedCalendarService
	exportSvc        service.ExportService
}

// NewSavedCalendarHandler 创建 SavedCalendarHandler
func NewSavedCalendarHandler(savedCalendarSvc service.SavedCalendarService, exportSvc service.ExportService) *SavedCalendarHandler {
	return &SavedCalendarHandler{savedCalendarSvc: savedCalendarSvc, exportSvc: exportSvc}
}

// SaveCalendar 保存课表快照（同名覆盖）
// PUT /api/v1/calendars
func (h *SavedCalendarHandler) SaveCalendar(c *gin.Context) {
	var req dto.SaveCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	saved, err := h.savedCalendarSvc.Save(c.Request.Context(), &req)
	if err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.OK(c, saved)
}

// GetCalendar 读取保存的课表
// GET /api/v1/calendars/:key
func (h *SavedCalendarHandler) GetCalendar(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, 10001, "课表名称不能为空")
		return
	}

	saved, err := h.savedCalendarSvc.Get(c.Request.Context(), key)
	if err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.OK(c, saved)
}

// ListCalendars 列出全部保存的课表（不含快照本体）
// GET /api/v1/calendars
func (h *SavedCalendarHandler) ListCalendars(c *gin.Context) {
	calendars, err := h.savedCalendarSvc.List(c.Request.Context())
	if err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.OK(c, gin.H{"list": calendars})
}

// DeleteCalendar 删除保存的课表
// DELETE /api/v1/calendars/:key
func (h *SavedCalendarHandler) DeleteCalendar(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, 10001, "课表名称不能为空")
		return
	}

	if err := h.savedCalendarSvc.Delete(c.Request.Context(), key); err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetCalendarICS 以 iCalendar 格式下发保存的课表（webcal 订阅端点）
// GET /api/v1/calendars/:key/ics?language=no
func (h *SavedCalendarHandler) GetCalendarICS(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, 10001, "课表名称不能为空")
		return
	}
	language := c.DefaultQuery("language", "no")

	filename, content, err := h.savedCalendarSvc.ExportICS(c.Request.Context(), key, language)
	if err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.File(c, response.ContentTypeICS, filename, []byte(content))
}

// GetWebcalLink 生成保存课表的外部日历订阅深链
// GET /api/v1/calendars/:key/webcal
func (h *SavedCalendarHandler) GetWebcalLink(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, 10001, "课表名称不能为空")
		return
	}

	// 确认课表存在后再出链接
	if _, err := h.savedCalendarSvc.Get(c.Request.Context(), key); err != nil {
		h.handleSavedCalendarError(c, err)
		return
	}

	response.OK(c, h.exportSvc.WebcalLink(c.Request.Host, key))
}

func (h *SavedCalendarHandler) handleSavedCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSavedCalendarNotFound):
		response.NotFound(c, 16001, "保存的课表不存在")
	case errors.Is(err, service.ErrSavedCalendarEmptyKey):
		response.BadRequest(c, 16002, "课表名称不能为空")
	case errors.Is(err, service.ErrSavedCalendarCorrupted):
		response.Conflict(c, 16003, "保存的课表数据已损坏")
	case errors.Is(err, service.ErrSavedCalendarNoSelected):
		response.BadRequest(c, 16004, "保存的课表中没有选中的课堂")
	default:
		response.InternalError(c)
	}
}
