package query

import (
	"fmt"

	"github.com/lepaiper/pos/internal/sale/domain"
)

// RecentSalesQuery represents the query for the latest sales
type RecentSalesQuery struct {
	Limit int
}

// RecentSalesHandler handles the recent sales query
type RecentSalesHandler struct {
	repo domain.SaleRepository
}

// NewRecentSalesHandler creates a new recent sales handler
func NewRecentSalesHandler(repo domain.SaleRepository) *RecentSalesHandler {
	return &RecentSalesHandler{repo: repo}
}

// Handle executes the recent sales query
func (h *RecentSalesHandler) Handle(q RecentSalesQuery) ([]domain.Sale, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	sales, err := h.repo.FindRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sales: %w", err)
	}
	return sales, nil
}
