package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lepaiper/pos/internal/client/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

// GormClientRepository persists clients with GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Client{})
}

func (r *GormClientRepository) Create(client *domain.Client) error {
	return r.db.Create(client).Error
}

func (r *GormClientRepository) FindByID(id string) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *GormClientRepository) FindAll() ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.Order("join_date DESC").Find(&clients).Error
	return clients, err
}

func (r *GormClientRepository) CountJoinedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Client{}).Where("join_date >= ?", since).Count(&count).Error
	return count, err
}

func (r *GormClientRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Client{}).Count(&count).Error
	return count, err
}

func (r *GormClientRepository) Update(id string, update domain.ClientUpdate) (*domain.Client, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}

	if len(fields) > 0 {
		res := r.db.Model(&domain.Client{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update client: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrClientNotFound
		}
	}

	return r.FindByID(id)
}

// Delete soft-deletes a client and flags their historical sales. The
// clientName snapshot was captured when each sale committed; only the
// deleted flag is set here, exactly once.
func (r *GormClientRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Client{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete client: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrClientNotFound
		}

		if err := tx.Model(&saledomain.Sale{}).
			Where("client_id = ?", id).
			Update("client_deleted", true).Error; err != nil {
			return fmt.Errorf("failed to mark sales: %w", err)
		}
		return nil
	})
}
