package kafka

import "time"

// SaleCompletedEvent is emitted after a sale commits
type SaleCompletedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	SaleID        string    `json:"sale_id"`
	ClientID      string    `json:"client_id,omitempty"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	ItemCount     int       `json:"item_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
)

// Kafka topics
const (
	TopicSaleCompleted = "sale-completed"
)
