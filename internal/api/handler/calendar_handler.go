package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// CalendarHandler 日历投影模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ProjectCalendar 将课表快照投影为日历网格条目
// POST /api/v1/calendar/project
func (h *CalendarHandler) ProjectCalendar(c *gin.Context) {
	var req dto.CalendarProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	projection, err := h.calendarSvc.ProjectCalendar(&req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, projection)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalendarEmptyPlans):
		response.BadRequest(c, 14001, "课表列表不能为空")
	default:
		response.InternalError(c)
	}
}
