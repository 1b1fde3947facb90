package domain

import (
	"context"
	"time"
)

// LineItem is one requested cart line. The price field mirrors what the
// checkout UI displayed; it is accepted for shape but never trusted. The
// authoritative price is read from the product row at commit time.
type LineItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CommitRequest is a validated cart ready to be committed atomically.
type CommitRequest struct {
	ClientID      *string
	PaymentMethod string
	Items         []LineItem
}

// SaleRepository defines the contract for sale persistence. Commit is the
// transactional core: stock reservation, ledger write and loyalty update as
// one unit of work.
type SaleRepository interface {
	Commit(ctx context.Context, req CommitRequest) (*Sale, error)
	FindRecent(limit int) ([]Sale, error)
	FindSince(since time.Time) ([]Sale, error)
	Count() (int64, error)
}
