package repository

import (
	"gorm.io/gorm"

	"github.com/lepaiper/pos/internal/audit/domain"
)

// GormAuditRepository persists audit logs with GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new audit repository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.AuditLog{})
}

func (r *GormAuditRepository) Create(log *domain.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *GormAuditRepository) FindRecent(limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
