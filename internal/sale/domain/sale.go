package domain

import (
	"math"
	"time"
)

// Payment methods accepted at checkout
const (
	PaymentPix  = "pix"
	PaymentCard = "card"
	PaymentCash = "cash"
)

// ValidPaymentMethod reports whether method is one of the accepted values
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

// Sale represents a committed checkout. Sales are immutable once created.
type Sale struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	Total         float64    `json:"total" gorm:"not null"`
	PaymentMethod string     `json:"payment_method" gorm:"not null"`
	ClientID      *string    `json:"client_id" gorm:"type:uuid;index"`
	ClientName    string     `json:"client_name"`
	ClientDeleted bool       `json:"client_deleted" gorm:"not null;default:false"`
	Items         []SaleItem `json:"items" gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a line of a sale. Price is frozen at the moment of sale and
// productName survives later deletion of the product.
type SaleItem struct {
	ID             string  `json:"id" gorm:"primaryKey;type:uuid"`
	SaleID         string  `json:"sale_id" gorm:"not null;type:uuid;index"`
	ProductID      string  `json:"product_id" gorm:"not null;type:uuid;index"`
	ProductName    string  `json:"product_name"`
	ProductDeleted bool    `json:"product_deleted" gorm:"not null;default:false"`
	Quantity       int     `json:"quantity" gorm:"not null"`
	Price          float64 `json:"price" gorm:"not null"`
}

// TableName specifies the table name
func (SaleItem) TableName() string {
	return "sale_items"
}

// RoundCurrency rounds to 2 decimal places, half away from zero.
// All monetary amounts are positive here, so halves round up.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
