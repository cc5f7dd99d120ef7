package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/pkg/response"
)

// SelectionHandler 选课会话模块 HTTP 处理器
type SelectionHandler struct {
	selectionSvc service.SelectionService
}

// NewSelectionHandler 创建 SelectionHandler
func NewSelectionHandler(selectionSvc service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selectionSvc: selectionSvc}
}

// CreateSession 新建选课会话
// POST /api/v1/selections
func (h *SelectionHandler) CreateSession(c *gin.Context) {
	session, err := h.selectionSvc.CreateSession(c.Request.Context())
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}

	response.Created(c, session)
}

// GetSession 读取会话状态
// GET /api/v1/selections/:id
func (h *SelectionHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会话 ID 不能为空")
		return
	}

	session, err := h.selectionSvc.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}

	response.OK(c, session)
}

// ApplyEvent 对会话应用选课事件
// POST /api/v1/selections/:id/events
func (h *SelectionHandler) ApplyEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会话 ID 不能为空")
		return
	}

	var event dto.SelectionEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.selectionSvc.ApplyEvent(c.Request.Context(), id, event)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}

	response.OK(c, session)
}

// DeleteSession 删除会话
// DELETE /api/v1/selections/:id
func (h *SelectionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会话 ID 不能为空")
		return
	}

	if err := h.selectionSvc.DeleteSession(c.Request.Context(), id); err != nil {
		h.handleSelectionError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *SelectionHandler) handleSelectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelectionUnknownEvent):
		response.BadRequest(c, 15001, "未知的选课事件类型")
	case errors.Is(err, service.ErrSelectionSessionNotFound):
		response.NotFound(c, 15002, "选课会话不存在或已过期")
	case errors.Is(err, service.ErrSelectionSessionUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 15003, "会话存储不可用")
	default:
		response.InternalError(c)
	}
}
