package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// SemesterPlanHandler 课表查询模块 HTTP 处理器
type SemesterPlanHandler struct {
	semesterPlanSvc service.SemesterPlanService
}

// NewSemesterPlanHandler 创建 SemesterPlanHandler
func NewSemesterPlanHandler(semesterPlanSvc service.SemesterPlanService) *SemesterPlanHandler {
	return &SemesterPlanHandler{semesterPlanSvc: semesterPlanSvc}
}

// GetSemesterPlans 批量查询课程学期课表
// POST /api/v1/semesterplans?language=no
func (h *SemesterPlanHandler) GetSemesterPlans(c *gin.Context) {
	var req dto.SemesterPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	language := c.DefaultQuery("language", "no")

	plans, err := h.semesterPlanSvc.GetSemesterPlans(c.Request.Context(), &req, language)
	if err != nil {
		h.handleSemesterPlanError(c, err)
		return
	}

	response.OK(c, plans)
}

func (h *SemesterPlanHandler) handleSemesterPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterPlanNoCodes):
		response.BadRequest(c, 13001, "课程代码列表不能为空")
	case errors.Is(err, service.ErrSemesterPlanInvalidSemester):
		response.BadRequest(c, 13002, "学期代码格式非法，应为如 24v / 24h")
	case errors.Is(err, service.ErrSemesterPlanUpstream):
		response.BadGateway(c, 13003, "上游课表服务不可用")
	default:
		response.InternalError(c)
	}
}
