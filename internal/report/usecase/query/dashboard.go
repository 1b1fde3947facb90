package query

import (
	"fmt"
	"time"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

// DashboardQuery represents the query for the dashboard overview
type DashboardQuery struct{}

// DashboardData aggregates the last 30 days of activity
type DashboardData struct {
	Revenue     float64                `json:"revenue"`
	TotalSales  int                    `json:"total_sales"`
	AvgTicket   float64                `json:"avg_ticket"`
	NewClients  int64                  `json:"new_clients"`
	LowStock    []catalogdomain.Product `json:"low_stock"`
	RecentSales []saledomain.Sale      `json:"recent_sales"`
}

// DashboardHandler handles the dashboard query
type DashboardHandler struct {
	sales    saledomain.SaleRepository
	products catalogdomain.ProductRepository
	clients  clientdomain.ClientRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sales saledomain.SaleRepository, products catalogdomain.ProductRepository, clients clientdomain.ClientRepository) *DashboardHandler {
	return &DashboardHandler{sales: sales, products: products, clients: clients}
}

// Handle executes the dashboard query
func (h *DashboardHandler) Handle(_ DashboardQuery) (*DashboardData, error) {
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	sales, err := h.sales.FindSince(thirtyDaysAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	var revenue float64
	for _, s := range sales {
		revenue += s.Total
	}
	avgTicket := 0.0
	if len(sales) > 0 {
		avgTicket = revenue / float64(len(sales))
	}

	newClients, err := h.clients.CountJoinedSince(thirtyDaysAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count new clients: %w", err)
	}

	lowStock, err := h.products.FindLowStock(5)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}

	recentSales, err := h.sales.FindRecent(5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sales: %w", err)
	}

	return &DashboardData{
		Revenue:     saledomain.RoundCurrency(revenue),
		TotalSales:  len(sales),
		AvgTicket:   saledomain.RoundCurrency(avgTicket),
		NewClients:  newClients,
		LowStock:    lowStock,
		RecentSales: recentSales,
	}, nil
}
