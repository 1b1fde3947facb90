package query

import (
	"fmt"

	"github.com/lepaiper/pos/internal/catalog/domain"
)

// LowStockQuery represents the query for products at or below their
// restock threshold
type LowStockQuery struct {
	Limit int
}

// LowStockHandler handles the low stock query
type LowStockHandler struct {
	repo domain.ProductRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(repo domain.ProductRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle executes the low stock query
func (h *LowStockHandler) Handle(q LowStockQuery) ([]domain.Product, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	products, err := h.repo.FindLowStock(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}
