package domain

import "time"

// Setting is one key/value pair of store configuration
type Setting struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null;size:100"`
	Value     string    `json:"value" gorm:"not null;size:5000"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name
func (Setting) TableName() string {
	return "settings"
}

// SettingRepository defines the contract for settings data access
type SettingRepository interface {
	GetAll() (map[string]string, error)
	Upsert(key, value string) error
	UpsertMany(entries map[string]string) error
}
