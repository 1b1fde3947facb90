package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Roles. Viewers get read-only access; every mutation requires admin.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ErrUserNotFound is returned when a user does not exist
var ErrUserNotFound = errors.New("user not found")

// User represents an operator of the store backend
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'viewer'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeRole maps unknown role values to read-only access
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleViewer
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	Count() (int64, error)
}
