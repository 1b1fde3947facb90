package domain

import "time"

// AuditLog records who did what, after the fact. Writes are best-effort and
// never participate in the transaction of the action they describe.
type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"not null;type:uuid;index"`
	Action    string    `json:"action" gorm:"not null"`
	Entity    string    `json:"entity" gorm:"not null"`
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditRepository defines the contract for audit log data access
type AuditRepository interface {
	Create(log *AuditLog) error
	FindRecent(limit int) ([]AuditLog, error)
}
