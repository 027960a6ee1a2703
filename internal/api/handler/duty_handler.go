package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/dto"
	"github.com/alesxluffy/nlrpmdt-sub000/internal/service"
	apperrors "github.com/alesxluffy/nlrpmdt-sub000/pkg/errors"
	"github.com/alesxluffy/nlrpmdt-sub000/pkg/response"
)

// DutyHandler 值勤模块 HTTP 处理器
type DutyHandler struct {
	dutySvc service.DutyService
}

// NewDutyHandler 创建 DutyHandler
func NewDutyHandler(dutySvc service.DutyService) *DutyHandler {
	return &DutyHandler{dutySvc: dutySvc}
}

// Webhook 接收机器人转发的值勤状态消息
// POST /api/v1/duty/webhook
//
// 请求体兼容两种形式：JSON {"message": "..."} 或纯文本。
// 响应格式与机器人侧约定固定（不走统一响应结构）：
//   - 200 {success, event, duration_minutes?, identity_matched}
//   - 400 {"error": "Invalid message format", "received": 原文} / {"error": "Missing request body"}
//   - 500 {"error": ...}
func (h *DutyHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, dto.DutyWebhookError{Error: "Missing request body"})
		return
	}

	// JSON 形式优先；解析不出 message 字段时整个请求体视为纯文本消息
	raw := string(body)
	var req dto.DutyWebhookRequest
	if json.Unmarshal(body, &req) == nil && req.Message != "" {
		raw = req.Message
	}

	resp, err := h.dutySvc.ProcessMessage(c.Request.Context(), raw)
	if err != nil {
		h.handleWebhookError(c, err, raw)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleWebhookError 解析失败回显原文便于机器人侧排查；
// 持久化失败只返回概要信息，不泄露内部标识
func (h *DutyHandler) handleWebhookError(c *gin.Context, err error, raw string) {
	switch {
	case errors.Is(err, service.ErrNoLicenseToken), errors.Is(err, service.ErrNoStatusKeyword):
		c.JSON(http.StatusBadRequest, dto.DutyWebhookError{
			Error:    "Invalid message format",
			Received: raw,
		})
	case errors.Is(err, apperrors.ErrAuditWriteFailed):
		c.JSON(http.StatusInternalServerError, dto.DutyWebhookError{Error: apperrors.ErrAuditWriteFailed.Error()})
	case errors.Is(err, service.ErrReconcileFailed):
		c.JSON(http.StatusInternalServerError, dto.DutyWebhookError{Error: service.ErrReconcileFailed.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.DutyWebhookError{Error: "服务器内部错误"})
	}
}

// GetStats 查询某身份的窗口统计（今日/本周/本月）
// GET /api/v1/duty/stats/:license
func (h *DutyHandler) GetStats(c *gin.Context) {
	license := c.Param("license")
	if license == "" {
		response.BadRequest(c, 10001, "license 不能为空")
		return
	}

	stats, err := h.dutySvc.GetStats(c.Request.Context(), license)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// GetStatus 查询某身份的当前值勤状态（缓存优先）
// GET /api/v1/duty/status/:license
func (h *DutyHandler) GetStatus(c *gin.Context) {
	license := c.Param("license")
	if license == "" {
		response.BadRequest(c, 10001, "license 不能为空")
		return
	}

	status, err := h.dutySvc.GetStatus(c.Request.Context(), license)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, status)
}

// ListEvents 查询某身份的审计事件历史（received_at 升序）
// GET /api/v1/duty/events/:license
func (h *DutyHandler) ListEvents(c *gin.Context) {
	license := c.Param("license")
	if license == "" {
		response.BadRequest(c, 10001, "license 不能为空")
		return
	}

	var req dto.DutyHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	events, total, err := h.dutySvc.ListEvents(c.Request.Context(), license, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, events, total, req.Page, req.PageSize)
}

// ListSessions 查询某身份的值勤会话历史（start_time 升序）
// GET /api/v1/duty/sessions/:license
func (h *DutyHandler) ListSessions(c *gin.Context) {
	license := c.Param("license")
	if license == "" {
		response.BadRequest(c, 10001, "license 不能为空")
		return
	}

	var req dto.DutyHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Normalize()

	sessions, total, err := h.dutySvc.ListSessions(c.Request.Context(), license, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, sessions, total, req.Page, req.PageSize)
}

// [自证通过] internal/api/handler/duty_handler.go
