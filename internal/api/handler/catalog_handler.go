package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// CatalogHandler 专业与课程目录模块 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListPrograms 获取专业列表
// GET /api/v1/programs?language=no
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	language := c.Query("language")
	if language != "" && language != "no" && language != "en" {
		response.BadRequest(c, 10001, "language 仅支持 no / en")
		return
	}

	programs, err := h.catalogSvc.ListPrograms(c.Request.Context(), language)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": programs})
}

// GetProgram 获取专业详情
// GET /api/v1/programs/:id
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "专业代码不能为空")
		return
	}

	program, err := h.catalogSvc.GetProgram(c.Request.Context(), id)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, program)
}

// ListCourses 获取课程目录
// GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogSvc.ListCourses(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// SearchCourses 按代码或名称前缀搜索课程
// GET /api/v1/courses/search?q=TDT&limit=20
func (h *CatalogHandler) SearchCourses(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	courses, err := h.catalogSvc.SearchCourses(c.Request.Context(), query, limit)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 11001, "专业不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11002, "课程不存在")
	case errors.Is(err, service.ErrCatalogShortWord):
		response.BadRequest(c, 11003, "搜索关键词至少需要 2 个字符")
	default:
		response.InternalError(c)
	}
}
