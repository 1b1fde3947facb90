package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product does not exist
var ErrProductNotFound = errors.New("product not found")

// Product represents a catalog product
type Product struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string         `json:"name" gorm:"not null"`
	Category  string         `json:"category" gorm:"not null;index"`
	Price     float64        `json:"price" gorm:"not null"`
	Cost      float64        `json:"cost" gorm:"not null"`
	Stock     int            `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	MinStock  int            `json:"min_stock" gorm:"not null;default:0"`
	Color     string         `json:"color"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product is at or below its restock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductUpdate carries the fields of a partial product edit. Nil means unchanged.
type ProductUpdate struct {
	Name     *string
	Category *string
	Price    *float64
	Cost     *float64
	Stock    *int
	MinStock *int
	Color    *string
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id string) (*Product, error)
	FindAll() ([]Product, error)
	FindLowStock(limit int) ([]Product, error)
	Update(id string, update ProductUpdate) (*Product, error)
	Delete(id string) error
	Count() (int64, error)
}
