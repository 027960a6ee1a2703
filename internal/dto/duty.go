package dto

import "time"

// ── 值勤模块 DTO ──

// DutyWebhookRequest Webhook JSON 请求体（同时兼容纯文本请求体，见 handler）
type DutyWebhookRequest struct {
	Message string `json:"message"`
}

// DutyWebhookResponse Webhook 成功响应
// 字段与机器人侧约定固定，不使用统一响应结构
type DutyWebhookResponse struct {
	Success         bool   `json:"success"`
	Event           string `json:"event"` // on_duty | off_duty
	DurationMinutes *int64 `json:"duration_minutes,omitempty"`
	IdentityMatched bool   `json:"identity_matched"`
}

// DutyWebhookError Webhook 错误响应
type DutyWebhookError struct {
	Error    string `json:"error"`
	Received string `json:"received,omitempty"` // 解析失败时回显原始文本
}

// DutyStatusResponse 单一身份的当前值勤状态（缓存优先的快速查询）
type DutyStatusResponse struct {
	LicenseToken   string     `json:"license_token"`
	DutyStatus     string     `json:"duty_status"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

// DutyStatsResponse 单一身份的值勤时长统计
type DutyStatsResponse struct {
	LicenseToken    string     `json:"license_token"`
	TodayMinutes    int64      `json:"today_minutes"`
	WeekMinutes     int64      `json:"week_minutes"`  // ISO 周（周一 00:00 起）
	MonthMinutes    int64      `json:"month_minutes"` // 自然月
	CurrentStatus   string     `json:"current_status"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	IdentityMatched bool       `json:"identity_matched"`
	OfficerName     string     `json:"officer_name,omitempty"`
}

// DutyHistoryRequest 事件/会话历史查询参数
type DutyHistoryRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// Normalize 填充分页默认值
func (r *DutyHistoryRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 50
	}
}

// DutyEventResponse 审计事件
type DutyEventResponse struct {
	ID           string    `json:"id"`
	LicenseToken string    `json:"license_token"`
	Status       string    `json:"status"`
	RankAtTime   *string   `json:"rank_at_time,omitempty"`
	RawMessage   string    `json:"raw_message"`
	ReceivedAt   time.Time `json:"received_at"`
}

// DutySessionResponse 值勤会话
type DutySessionResponse struct {
	ID              string     `json:"id"`
	LicenseToken    string     `json:"license_token"`
	OfficerID       *string    `json:"officer_id,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	Open            bool       `json:"open"`
}

// [自证通过] internal/dto/duty.go
