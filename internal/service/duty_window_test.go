package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
)

// 测试统一使用 UTC，避免依赖系统 tzdata
var testLoc = time.UTC

func mkTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, testLoc)
}

func onEvent(at time.Time) model.DutyEvent {
	return model.DutyEvent{Status: model.EventStatusOnDuty, ReceivedAt: at}
}

func offEvent(at time.Time) model.DutyEvent {
	return model.DutyEvent{Status: model.EventStatusOffDuty, ReceivedAt: at}
}

// ── 窗口边界 ──

func TestWindowsAt_Bounds(t *testing.T) {
	// 2026-08-26 是周三
	now := mkTime(2026, 8, 26, 15, 30)
	ws := WindowsAt(now, testLoc)

	if !ws.Today.Start.Equal(mkTime(2026, 8, 26, 0, 0)) {
		t.Errorf("今日窗口起点错误: %v", ws.Today.Start)
	}
	if !ws.Today.End.Equal(mkTime(2026, 8, 27, 0, 0)) {
		t.Errorf("今日窗口终点错误: %v", ws.Today.End)
	}
	if !ws.Week.Start.Equal(mkTime(2026, 8, 24, 0, 0)) { // 周一
		t.Errorf("本周窗口起点错误: %v", ws.Week.Start)
	}
	if !ws.Week.End.Equal(mkTime(2026, 8, 31, 0, 0)) {
		t.Errorf("本周窗口终点错误: %v", ws.Week.End)
	}
	if !ws.Month.Start.Equal(mkTime(2026, 8, 1, 0, 0)) {
		t.Errorf("本月窗口起点错误: %v", ws.Month.Start)
	}
	if !ws.Month.End.Equal(mkTime(2026, 9, 1, 0, 0)) {
		t.Errorf("本月窗口终点错误: %v", ws.Month.End)
	}
}

func TestWindowsAt_MondayWeekStart(t *testing.T) {
	// now 恰为周一时本周起点是当天零点
	now := mkTime(2026, 8, 24, 8, 0)
	ws := WindowsAt(now, testLoc)
	if !ws.Week.Start.Equal(mkTime(2026, 8, 24, 0, 0)) {
		t.Errorf("周一当天本周起点应为当天零点: %v", ws.Week.Start)
	}
}

func TestWindowsAt_SundayWeekStart(t *testing.T) {
	// 周日属于上周一开始的 ISO 周
	now := mkTime(2026, 8, 30, 12, 0)
	ws := WindowsAt(now, testLoc)
	if !ws.Week.Start.Equal(mkTime(2026, 8, 24, 0, 0)) {
		t.Errorf("周日本周起点错误: %v", ws.Week.Start)
	}
}

// ── 重叠公式的四种情形 ──

func TestOverlapMinutes_FourCases(t *testing.T) {
	win := Window{Start: mkTime(2026, 8, 26, 0, 0), End: mkTime(2026, 8, 27, 0, 0)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"起点在窗口前终点在窗口内", mkTime(2026, 8, 25, 23, 0), mkTime(2026, 8, 26, 1, 0), 60},
		{"起点在窗口内终点在窗口后", mkTime(2026, 8, 26, 23, 0), mkTime(2026, 8, 27, 2, 0), 60},
		{"区间完整包含窗口", mkTime(2026, 8, 25, 0, 0), mkTime(2026, 8, 28, 0, 0), 1440},
		{"区间完全在窗口外", mkTime(2026, 8, 24, 8, 0), mkTime(2026, 8, 24, 16, 0), 0},
		{"区间完全在窗口内", mkTime(2026, 8, 26, 9, 0), mkTime(2026, 8, 26, 17, 0), 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapMinutes(tt.start, tt.end, win); got != tt.want {
				t.Errorf("期望%d，实际=%d", tt.want, got)
			}
		})
	}
}

// ── 重叠性质（随机区间/窗口，分钟对齐）──

func TestOverlapMinutes_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := mkTime(2026, 8, 1, 0, 0)

	minuteAt := func(n int) time.Time { return base.Add(time.Duration(n) * time.Minute) }

	for i := 0; i < 1000; i++ {
		// 随机分钟对齐的区间与窗口
		a, b := rng.Intn(10000), rng.Intn(10000)
		if a > b {
			a, b = b, a
		}
		c, d := rng.Intn(10000), rng.Intn(10000)
		if c > d {
			c, d = d, c
		}

		start, end := minuteAt(a), minuteAt(b)
		win := Window{Start: minuteAt(c), End: minuteAt(d)}

		got := OverlapMinutes(start, end, win)

		// 非负
		if got < 0 {
			t.Fatalf("重叠不得为负: %d", got)
		}

		// 不超过区间与窗口长度的较小者
		intervalLen := int64(b - a)
		windowLen := int64(d - c)
		maxAllowed := intervalLen
		if windowLen < maxAllowed {
			maxAllowed = windowLen
		}
		if got > maxAllowed {
			t.Fatalf("重叠%d超出上界%d（区间[%d,%d] 窗口[%d,%d)）", got, maxAllowed, a, b, c, d)
		}

		// 可加性：窗口对半切分后重叠之和等于整窗口重叠
		if d > c {
			mid := c + rng.Intn(d-c)
			left := Window{Start: minuteAt(c), End: minuteAt(mid)}
			right := Window{Start: minuteAt(mid), End: minuteAt(d)}
			if sum := OverlapMinutes(start, end, left) + OverlapMinutes(start, end, right); sum != got {
				t.Fatalf("切分后重叠之和%d != 整窗口重叠%d（切分点%d）", sum, got, mid)
			}
		}
	}
}

// ── 事件流折算场景 ──

func TestAggregateDutyMinutes_SingleClosedShift(t *testing.T) {
	// 09:00 上勤 17:00 下勤，同一天 ⇒ 今日 480 分钟
	now := mkTime(2026, 8, 26, 20, 0)
	events := []model.DutyEvent{
		onEvent(mkTime(2026, 8, 26, 9, 0)),
		offEvent(mkTime(2026, 8, 26, 17, 0)),
	}

	result := AggregateDutyMinutes(events, now, testLoc)
	if result.Today != 480 {
		t.Errorf("期望今日480分钟，实际=%d", result.Today)
	}
	if result.Week != 480 || result.Month != 480 {
		t.Errorf("期望本周/本月均480，实际=%d/%d", result.Week, result.Month)
	}
	if result.LastStatus != model.EventStatusOffDuty {
		t.Errorf("期望最近状态off_duty，实际=%s", result.LastStatus)
	}
}

func TestAggregateDutyMinutes_MidnightSpan(t *testing.T) {
	// 昨日 23:00 上勤，今日 01:00 下勤 ⇒ 今日仅计 60 分钟
	now := mkTime(2026, 8, 26, 12, 0)
	events := []model.DutyEvent{
		onEvent(mkTime(2026, 8, 25, 23, 0)),
		offEvent(mkTime(2026, 8, 26, 1, 0)),
	}

	result := AggregateDutyMinutes(events, now, testLoc)
	if result.Today != 60 {
		t.Errorf("期望今日60分钟，实际=%d", result.Today)
	}
	// 25/26 同属一周同属一月，整段 120 分钟均计入
	if result.Week != 120 || result.Month != 120 {
		t.Errorf("期望本周/本月均120，实际=%d/%d", result.Week, result.Month)
	}
}

func TestAggregateDutyMinutes_OpenInterval(t *testing.T) {
	// 30 分钟前上勤，尚未下勤 ⇒ 进行中区间计入今日
	now := mkTime(2026, 8, 26, 10, 0)
	events := []model.DutyEvent{
		onEvent(mkTime(2026, 8, 26, 9, 30)),
	}

	result := AggregateDutyMinutes(events, now, testLoc)
	if result.Today != 30 {
		t.Errorf("期望今日30分钟，实际=%d", result.Today)
	}
	if result.LastStatus != model.EventStatusOnDuty {
		t.Errorf("期望最近状态on_duty，实际=%s", result.LastStatus)
	}
}

func TestAggregateDutyMinutes_LoneOffDuty(t *testing.T) {
	// 无配对上勤的游离下勤事件 ⇒ 各窗口均 0 分钟
	now := mkTime(2026, 8, 26, 12, 0)
	events := []model.DutyEvent{
		offEvent(mkTime(2026, 8, 26, 8, 0)),
	}

	result := AggregateDutyMinutes(events, now, testLoc)
	if result.Today != 0 || result.Week != 0 || result.Month != 0 {
		t.Errorf("期望均为0，实际=%d/%d/%d", result.Today, result.Week, result.Month)
	}
	if result.LastStatus != model.EventStatusOffDuty {
		t.Errorf("期望最近状态off_duty，实际=%s", result.LastStatus)
	}
}

func TestAggregateDutyMinutes_DuplicateOnDutyOverwrites(t *testing.T) {
	// 重复上勤覆盖旧指针：只从最后一次上勤计时（容忍丢失的下勤）
	now := mkTime(2026, 8, 26, 12, 0)
	events := []model.DutyEvent{
		onEvent(mkTime(2026, 8, 26, 8, 0)),
		onEvent(mkTime(2026, 8, 26, 10, 0)),
		offEvent(mkTime(2026, 8, 26, 11, 0)),
	}

	result := AggregateDutyMinutes(events, now, testLoc)
	if result.Today != 60 {
		t.Errorf("期望今日60分钟，实际=%d", result.Today)
	}
}

func TestAggregateDutyMinutes_NoEvents(t *testing.T) {
	result := AggregateDutyMinutes(nil, mkTime(2026, 8, 26, 12, 0), testLoc)
	if result.Today != 0 || result.Week != 0 || result.Month != 0 {
		t.Error("无事件时各窗口应为0")
	}
	if result.LastStatus != "" || result.LastActivityAt != nil {
		t.Error("无事件时不应有最近状态")
	}
}

// [自证通过] internal/service/duty_window_test.go
