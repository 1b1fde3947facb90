package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lepaiper/pos/internal/settings/domain"
)

// GormSettingRepository persists settings with GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new settings repository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Setting{})
}

// GetAll returns every setting as a key/value map
func (r *GormSettingRepository) GetAll() (map[string]string, error) {
	var settings []domain.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// Upsert creates or replaces the value for key
func (r *GormSettingRepository) Upsert(key, value string) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&domain.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

// UpsertMany upserts a batch of settings in one transaction
func (r *GormSettingRepository) UpsertMany(entries map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&domain.Setting{Key: key, Value: value}).Error
			if err != nil {
				return fmt.Errorf("failed to upsert setting %q: %w", key, err)
			}
		}
		return nil
	})
}
