package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// StudyPlanHandler 学习计划模块 HTTP 处理器
type StudyPlanHandler struct {
	studyPlanSvc service.StudyPlanService
}

// NewStudyPlanHandler 创建 StudyPlanHandler
func NewStudyPlanHandler(studyPlanSvc service.StudyPlanService) *StudyPlanHandler {
	return &StudyPlanHandler{studyPlanSvc: studyPlanSvc}
}

// GetStudyPlan 获取专业指定年级的课程结构树
// GET /api/v1/studyplans/:program?year=2&season=Autumn
func (h *StudyPlanHandler) GetStudyPlan(c *gin.Context) {
	programCode := c.Param("program")
	if programCode == "" {
		response.BadRequest(c, 10001, "专业代码不能为空")
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", "1"))
	if err != nil {
		response.BadRequest(c, 10001, "year 必须为整数")
		return
	}
	season := c.DefaultQuery("season", "Autumn")

	plan, err := h.studyPlanSvc.GetStudyPlan(c.Request.Context(), programCode, year, season)
	if err != nil {
		h.handleStudyPlanError(c, err)
		return
	}

	response.OK(c, plan)
}

func (h *StudyPlanHandler) handleStudyPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudyPlanInvalidYear):
		response.BadRequest(c, 12001, "年级必须在 1 到 6 之间")
	case errors.Is(err, service.ErrStudyPlanInvalidSeason):
		response.BadRequest(c, 12002, "season 必须为 Spring 或 Autumn")
	case errors.Is(err, service.ErrStudyPlanPeriodMissing):
		response.NotFound(c, 12003, "学习计划中不存在该学期")
	case errors.Is(err, service.ErrStudyPlanUpstream):
		response.BadGateway(c, 12004, "上游学习计划服务不可用")
	default:
		response.InternalError(c)
	}
}
