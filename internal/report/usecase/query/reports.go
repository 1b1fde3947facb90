package query

import (
	"fmt"
	"sort"
	"time"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

// Label used when a sale item references a product that was later removed
const deletedProductLabel = "Produto excluído"

// ReportsQuery represents the query for period reports
type ReportsQuery struct {
	Days int
}

// DailyRevenue is one point of the revenue/cost series
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
}

// CategorySales counts units sold per category
type CategorySales struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PaymentMethodCount counts sales per payment method
type PaymentMethodCount struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// TopProduct ranks a product by revenue in the period
type TopProduct struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// KPIs is the headline figures block
type KPIs struct {
	Revenue   float64 `json:"revenue"`
	Sales     int     `json:"sales"`
	AvgTicket float64 `json:"avg_ticket"`
	Clients   int64   `json:"clients"`
}

// ReportsData is the full period report
type ReportsData struct {
	KPIs            KPIs                 `json:"kpis"`
	DailyRevenue    []DailyRevenue       `json:"daily_revenue"`
	SalesByCategory []CategorySales      `json:"sales_by_category"`
	PaymentMethods  []PaymentMethodCount `json:"payment_methods"`
	TopProducts     []TopProduct         `json:"top_products"`
}

// ReportsHandler handles the period reports query
type ReportsHandler struct {
	sales    saledomain.SaleRepository
	products catalogdomain.ProductRepository
	clients  clientdomain.ClientRepository
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(sales saledomain.SaleRepository, products catalogdomain.ProductRepository, clients clientdomain.ClientRepository) *ReportsHandler {
	return &ReportsHandler{sales: sales, products: products, clients: clients}
}

// Handle executes the reports query over the requested period (1-365 days,
// default 30)
func (h *ReportsHandler) Handle(q ReportsQuery) (*ReportsData, error) {
	days := q.Days
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, fmt.Errorf("report period cannot exceed 365 days")
	}

	startDate := time.Now().AddDate(0, 0, -days)
	sales, err := h.sales.FindSince(startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	// Resolve categories and costs through the live catalog; soft-deleted
	// products fall back to the frozen item snapshot.
	productList, err := h.products.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	productByID := make(map[string]catalogdomain.Product, len(productList))
	for _, p := range productList {
		productByID[p.ID] = p
	}

	byDay := map[string]*DailyRevenue{}
	byCategory := map[string]int{}
	byMethod := map[string]int{}
	byProduct := map[string]*TopProduct{}
	var totalRevenue float64

	for _, sale := range sales {
		day := sale.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyRevenue{Date: day}
			byDay[day] = entry
		}
		entry.Revenue += sale.Total
		totalRevenue += sale.Total
		byMethod[sale.PaymentMethod]++

		for _, item := range sale.Items {
			product, live := productByID[item.ProductID]

			if live {
				entry.Cost += product.Cost * float64(item.Quantity)
			}

			category := deletedProductLabel
			if live {
				category = product.Category
			}
			byCategory[category] += item.Quantity

			name := item.ProductName
			if live {
				name = product.Name
			}
			top, ok := byProduct[name]
			if !ok {
				top = &TopProduct{Name: name}
				byProduct[name] = top
			}
			top.Quantity += item.Quantity
			top.Revenue += item.Price * float64(item.Quantity)
		}
	}

	dailyRevenue := make([]DailyRevenue, 0, len(byDay))
	for _, entry := range byDay {
		entry.Revenue = saledomain.RoundCurrency(entry.Revenue)
		entry.Cost = saledomain.RoundCurrency(entry.Cost)
		dailyRevenue = append(dailyRevenue, *entry)
	}
	sort.Slice(dailyRevenue, func(i, j int) bool { return dailyRevenue[i].Date < dailyRevenue[j].Date })

	salesByCategory := make([]CategorySales, 0, len(byCategory))
	for category, count := range byCategory {
		salesByCategory = append(salesByCategory, CategorySales{Category: category, Count: count})
	}
	sort.Slice(salesByCategory, func(i, j int) bool {
		if salesByCategory[i].Count != salesByCategory[j].Count {
			return salesByCategory[i].Count > salesByCategory[j].Count
		}
		return salesByCategory[i].Category < salesByCategory[j].Category
	})

	paymentMethods := make([]PaymentMethodCount, 0, len(byMethod))
	for method, count := range byMethod {
		paymentMethods = append(paymentMethods, PaymentMethodCount{Method: method, Count: count})
	}
	sort.Slice(paymentMethods, func(i, j int) bool { return paymentMethods[i].Method < paymentMethods[j].Method })

	topProducts := make([]TopProduct, 0, len(byProduct))
	for _, top := range byProduct {
		top.Revenue = saledomain.RoundCurrency(top.Revenue)
		topProducts = append(topProducts, *top)
	}
	sort.Slice(topProducts, func(i, j int) bool { return topProducts[i].Revenue > topProducts[j].Revenue })
	if len(topProducts) > 5 {
		topProducts = topProducts[:5]
	}

	totalClients, err := h.clients.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	avgTicket := 0.0
	if len(sales) > 0 {
		avgTicket = totalRevenue / float64(len(sales))
	}

	return &ReportsData{
		KPIs: KPIs{
			Revenue:   saledomain.RoundCurrency(totalRevenue),
			Sales:     len(sales),
			AvgTicket: saledomain.RoundCurrency(avgTicket),
			Clients:   totalClients,
		},
		DailyRevenue:    dailyRevenue,
		SalesByCategory: salesByCategory,
		PaymentMethods:  paymentMethods,
		TopProducts:     topProducts,
	}, nil
}
