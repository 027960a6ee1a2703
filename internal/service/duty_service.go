package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alesxluffy/nlrpmdt-sub000/config"
	"github.com/alesxluffy/nlrpmdt-sub000/internal/dto"
	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
	"github.com/alesxluffy/nlrpmdt-sub000/internal/repository"
	apperrors "github.com/alesxluffy/nlrpmdt-sub000/pkg/errors"
	"github.com/alesxluffy/nlrpmdt-sub000/pkg/lock"
	"github.com/alesxluffy/nlrpmdt-sub000/pkg/redis"
)

// ── 值勤模块业务错误 ──

var (
	// ErrReconcileFailed 会话开/关持久化失败；审计事件已落库不回滚，
	// 调用方可安全重试（会话查找幂等）
	ErrReconcileFailed = errors.New("值勤会话对账失败")
)

// DutyService 值勤时长统计业务接口
type DutyService interface {
	// ProcessMessage 处理一条机器人转发的原始消息：
	// 解析 → 追加审计事件 → 按身份串行对账会话 → 回写快照
	ProcessMessage(ctx context.Context, raw string) (*dto.DutyWebhookResponse, error)
	// GetStats 从事件日志全量重算某身份的窗口统计
	GetStats(ctx context.Context, license string) (*dto.DutyStatsResponse, error)
	// GetStatus 查询某身份当前值勤状态（缓存优先，回退事件日志）
	GetStatus(ctx context.Context, license string) (*dto.DutyStatusResponse, error)
	ListEvents(ctx context.Context, license string, req *dto.DutyHistoryRequest) ([]dto.DutyEventResponse, int64, error)
	ListSessions(ctx context.Context, license string, req *dto.DutyHistoryRequest) ([]dto.DutySessionResponse, int64, error)
	ListOfficerStatuses(ctx context.Context, req *dto.OfficerStatusListRequest) ([]dto.OfficerStatusResponse, error)
}

type dutyService struct {
	repo     *repository.Repository
	rdb      *redis.Client // 可为 nil（降级：无缓存）
	locks    *lock.KeyedMutex
	loc      *time.Location
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time // 测试注入
}

// NewDutyService 创建 DutyService 实例
func NewDutyService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) DutyService {
	// 时区已在 config.Validate 校验过
	loc, err := time.LoadLocation(cfg.Duty.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &dutyService{
		repo:     repo,
		rdb:      rdb,
		locks:    lock.NewKeyedMutex(),
		loc:      loc,
		cacheTTL: cfg.Duty.StatusCacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── ProcessMessage ──────────────────────

func (s *dutyService) ProcessMessage(ctx context.Context, raw string) (*dto.DutyWebhookResponse, error) {
	parsed, err := ParseDutyMessage(raw)
	if err != nil {
		return nil, err
	}

	// 审计先行：ReceivedAt 取服务端当前时间，事件落库失败则整个请求失败，
	// 绝不对账未经审计的状态
	receivedAt := s.now()
	event := &model.DutyEvent{
		LicenseToken: parsed.LicenseToken,
		Status:       parsed.Status.EventValue(),
		RankAtTime:   parsed.RankAtTime,
		RawMessage:   raw,
		ReceivedAt:   receivedAt,
	}
	if err := s.repo.DutyEvent.Create(ctx, event); err != nil {
		s.logger.Error("审计事件写入失败",
			zap.String("license_token", parsed.LicenseToken),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuditWriteFailed, err)
	}

	// 同一身份的对账严格串行；不同身份并行互不影响
	unlock := s.locks.Lock(parsed.LicenseToken)
	defer unlock()

	officer, err := s.resolveOfficer(ctx, parsed.LicenseToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
	}

	resp := &dto.DutyWebhookResponse{
		Success:         true,
		Event:           parsed.Status.EventValue(),
		IdentityMatched: officer != nil,
	}

	switch parsed.Status {
	case StatusOnDuty:
		if err := s.reconcileOnDuty(ctx, parsed.LicenseToken, officer, receivedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
		}
	case StatusOffDuty:
		duration, err := s.reconcileOffDuty(ctx, parsed.LicenseToken, officer, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
		}
		resp.DurationMinutes = duration
	}

	s.refreshStatusCache(ctx, parsed.LicenseToken, parsed.Status, receivedAt)

	return resp, nil
}

// resolveOfficer 规范化身份标识查档案；查无此人不是错误，返回 (nil, nil)
func (s *dutyService) resolveOfficer(ctx context.Context, token string) (*model.Officer, error) {
	officer, err := s.repo.Officer.GetByLicense(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return officer, nil
}

// reconcileOnDuty 状态机 OFF→ON：开启新会话
// 已有进行中会话（ON→ON）时开会话为幂等空操作，但快照仍刷新
func (s *dutyService) reconcileOnDuty(ctx context.Context, token string, officer *model.Officer, at time.Time) error {
	_, err := s.repo.DutySession.GetOpenByToken(ctx, token)
	switch {
	case err == nil:
		// 重复上勤信号，不开第二个会话
		s.logger.Debug("重复上勤信号，会话已存在", zap.String("license_token", token))
	case errors.Is(err, gorm.ErrRecordNotFound):
		session := &model.DutySession{
			LicenseToken: token,
			StartTime:    at,
		}
		if officer != nil {
			session.OfficerID = &officer.OfficerID
		}
		if err := s.repo.DutySession.Create(ctx, session); err != nil {
			return err
		}
	default:
		return err
	}

	if officer != nil {
		if err := s.repo.Officer.UpdateSnapshot(ctx, officer.OfficerID, model.DutyStatusOn, at, 0); err != nil {
			return err
		}
	}
	return nil
}

// reconcileOffDuty 状态机 ON→OFF：关闭进行中会话并计算时长
// 无进行中会话（OFF→OFF，上勤信号丢失）不是错误：快照仍置为下勤，
// 但不累加任何时长，返回 nil 时长
func (s *dutyService) reconcileOffDuty(ctx context.Context, token string, officer *model.Officer, at time.Time) (*int64, error) {
	var duration *int64
	var addMinutes int64

	open, err := s.repo.DutySession.GetOpenByToken(ctx, token)
	switch {
	case err == nil:
		d := int64(at.Sub(open.StartTime) / time.Minute)
		if d < 0 {
			d = 0
		}
		open.EndTime = &at
		open.DurationMinutes = &d
		if open.OfficerID == nil && officer != nil {
			open.OfficerID = &officer.OfficerID
		}
		if err := s.repo.DutySession.Update(ctx, open); err != nil {
			return nil, err
		}
		duration = &d
		addMinutes = d
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Debug("游离下勤信号，无会话可关", zap.String("license_token", token))
	default:
		return nil, err
	}

	if officer != nil {
		if err := s.repo.Officer.UpdateSnapshot(ctx, officer.OfficerID, model.DutyStatusOff, at, addMinutes); err != nil {
			return nil, err
		}
	}
	return duration, nil
}

// refreshStatusCache 对账完成后刷新状态缓存；尽力而为，失败只记日志
func (s *dutyService) refreshStatusCache(ctx context.Context, token string, status DutyStatus, at time.Time) {
	if s.rdb == nil {
		return
	}
	display := model.DutyStatusOff
	if status == StatusOnDuty {
		display = model.DutyStatusOn
	}
	entry := &redis.DutyStatusEntry{Status: display, LastActivityAt: at}
	if err := s.rdb.SetDutyStatus(ctx, token, entry, s.cacheTTL); err != nil {
		s.logger.Warn("值勤状态缓存写入失败", zap.String("license_token", token), zap.Error(err))
	}
}

// ────────────────────── GetStats ──────────────────────

func (s *dutyService) GetStats(ctx context.Context, license string) (*dto.DutyStatsResponse, error) {
	token := NormalizeLicense(license)

	events, err := s.repo.DutyEvent.ListByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	agg := AggregateDutyMinutes(events, s.now(), s.loc)

	resp := &dto.DutyStatsResponse{
		LicenseToken:   token,
		TodayMinutes:   agg.Today,
		WeekMinutes:    agg.Week,
		MonthMinutes:   agg.Month,
		CurrentStatus:  model.DutyStatusOff,
		LastActivityAt: agg.LastActivityAt,
	}
	if agg.LastStatus == model.EventStatusOnDuty {
		resp.CurrentStatus = model.DutyStatusOn
	}

	// 身份解析失败不阻塞统计：未匹配的 token 照常出数
	officer, err := s.resolveOfficer(ctx, token)
	if err != nil {
		return nil, err
	}
	if officer != nil {
		resp.IdentityMatched = true
		resp.OfficerName = officer.Name
	}

	return resp, nil
}

// ────────────────────── GetStatus ──────────────────────

func (s *dutyService) GetStatus(ctx context.Context, license string) (*dto.DutyStatusResponse, error) {
	token := NormalizeLicense(license)

	// 缓存优先；Redis 不可用或未命中时回退事件日志
	if s.rdb != nil {
		entry, err := s.rdb.GetDutyStatus(ctx, token)
		if err != nil {
			s.logger.Warn("值勤状态缓存读取失败", zap.String("license_token", token), zap.Error(err))
		} else if entry != nil {
			t := entry.LastActivityAt
			return &dto.DutyStatusResponse{
				LicenseToken:   token,
				DutyStatus:     entry.Status,
				LastActivityAt: &t,
			}, nil
		}
	}

	resp := &dto.DutyStatusResponse{
		LicenseToken: token,
		DutyStatus:   model.DutyStatusOff,
	}

	latest, err := s.repo.DutyEvent.LatestByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil // 无任何事件：默认下勤
		}
		return nil, err
	}

	if latest.Status == model.EventStatusOnDuty {
		resp.DutyStatus = model.DutyStatusOn
	}
	resp.LastActivityAt = &latest.ReceivedAt

	if s.rdb != nil {
		entry := &redis.DutyStatusEntry{Status: resp.DutyStatus, LastActivityAt: latest.ReceivedAt}
		if err := s.rdb.SetDutyStatus(ctx, token, entry, s.cacheTTL); err != nil {
			s.logger.Warn("值勤状态缓存回填失败", zap.String("license_token", token), zap.Error(err))
		}
	}

	return resp, nil
}

// ────────────────────── 历史查询 ──────────────────────

func (s *dutyService) ListEvents(ctx context.Context, license string, req *dto.DutyHistoryRequest) ([]dto.DutyEventResponse, int64, error) {
	req.Normalize()
	token := NormalizeLicense(license)

	events, total, err := s.repo.DutyEvent.ListByTokenPaged(ctx, token, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.DutyEventResponse, 0, len(events))
	for i := range events {
		ev := &events[i]
		result = append(result, dto.DutyEventResponse{
			ID:           ev.DutyEventID,
			LicenseToken: ev.LicenseToken,
			Status:       ev.Status,
			RankAtTime:   ev.RankAtTime,
			RawMessage:   ev.RawMessage,
			ReceivedAt:   ev.ReceivedAt,
		})
	}
	return result, total, nil
}

func (s *dutyService) ListSessions(ctx context.Context, license string, req *dto.DutyHistoryRequest) ([]dto.DutySessionResponse, int64, error) {
	req.Normalize()
	token := NormalizeLicense(license)

	sessions, total, err := s.repo.DutySession.ListByTokenPaged(ctx, token, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.DutySessionResponse, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		result = append(result, dto.DutySessionResponse{
			ID:              sess.DutySessionID,
			LicenseToken:    sess.LicenseToken,
			OfficerID:       sess.OfficerID,
			StartTime:       sess.StartTime,
			EndTime:         sess.EndTime,
			DurationMinutes: sess.DurationMinutes,
			Open:            sess.IsOpen(),
		})
	}
	return result, total, nil
}

// ────────────────────── 状态板 ──────────────────────

func (s *dutyService) ListOfficerStatuses(ctx context.Context, req *dto.OfficerStatusListRequest) ([]dto.OfficerStatusResponse, error) {
	officers, err := s.repo.Officer.ListStatuses(ctx, req.OnDutyOnly)
	if err != nil {
		return nil, err
	}

	result := make([]dto.OfficerStatusResponse, 0, len(officers))
	for i := range officers {
		o := &officers[i]
		result = append(result, dto.OfficerStatusResponse{
			OfficerID:          o.OfficerID,
			Name:               o.Name,
			License:            o.License,
			Rank:               o.Rank,
			DutyStatus:         o.DutyStatus,
			LastActivityAt:     o.LastActivityAt,
			AccumulatedMinutes: o.AccumulatedMinutes,
		})
	}
	return result, nil
}

// [自证通过] internal/service/duty_service.go
