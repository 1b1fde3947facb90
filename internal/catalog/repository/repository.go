package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lepaiper/pos/internal/catalog/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

// GormProductRepository persists products with GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll() ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Order("created_at DESC").Find(&products).Error
	return products, err
}

// FindLowStock returns products at or below their restock threshold,
// lowest stock first
func (r *GormProductRepository) FindLowStock(limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Where("stock <= min_stock").Order("stock ASC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(id string, update domain.ProductUpdate) (*domain.Product, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Cost != nil {
		fields["cost"] = *update.Cost
	}
	if update.Stock != nil {
		fields["stock"] = *update.Stock
	}
	if update.MinStock != nil {
		fields["min_stock"] = *update.MinStock
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}

	if len(fields) > 0 {
		res := r.db.Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrProductNotFound
		}
	}

	return r.FindByID(id)
}

// Delete soft-deletes a product. Historical sale items keep their frozen
// name snapshot; the deleted flag is set here, exactly once, so reports can
// tell a live reference from a severed one.
func (r *GormProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}

		if err := tx.Model(&saledomain.SaleItem{}).
			Where("product_id = ?", id).
			Update("product_deleted", true).Error; err != nil {
			return fmt.Errorf("failed to mark sale items: %w", err)
		}
		return nil
	})
}

func (r *GormProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Product{}).Count(&count).Error
	return count, err
}
