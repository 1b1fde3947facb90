package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrClientNotFound is returned when a client does not exist
var ErrClientNotFound = errors.New("client not found")

// Client represents a loyalty-tracked customer
type Client struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	TotalSpent   float64        `json:"total_spent" gorm:"not null;default:0"`
	TotalOrders  int            `json:"total_orders" gorm:"not null;default:0"`
	LastPurchase *time.Time     `json:"last_purchase"`
	JoinDate     time.Time      `json:"join_date" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Client) TableName() string {
	return "clients"
}

// ClientUpdate carries the fields of a partial client edit. Nil means unchanged.
type ClientUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// ClientRepository defines the contract for client data access
type ClientRepository interface {
	Create(client *Client) error
	FindByID(id string) (*Client, error)
	FindAll() ([]Client, error)
	CountJoinedSince(since time.Time) (int64, error)
	Count() (int64, error)
	Update(id string, update ClientUpdate) (*Client, error)
	Delete(id string) error
}
