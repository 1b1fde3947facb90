package query

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

// ExportCSVQuery represents the query to export sales as CSV
type ExportCSVQuery struct {
	Days int
}

// ExportCSVHandler handles the CSV export query
type ExportCSVHandler struct {
	sales    saledomain.SaleRepository
	products catalogdomain.ProductRepository
}

// NewExportCSVHandler creates a new CSV export handler
func NewExportCSVHandler(sales saledomain.SaleRepository, products catalogdomain.ProductRepository) *ExportCSVHandler {
	return &ExportCSVHandler{sales: sales, products: products}
}

// Handle renders one CSV row per sale item for the requested period
func (h *ExportCSVHandler) Handle(q ExportCSVQuery) ([]byte, error) {
	days := q.Days
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, fmt.Errorf("export period cannot exceed 365 days")
	}

	startDate := time.Now().AddDate(0, 0, -days)
	sales, err := h.sales.FindSince(startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	productList, err := h.products.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	productByID := make(map[string]catalogdomain.Product, len(productList))
	for _, p := range productList {
		productByID[p.ID] = p
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Data", "Cliente", "Produto", "Categoria", "Qtd", "Preço Unit.", "Subtotal", "Pagamento"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	// Newest sales first
	for i := len(sales) - 1; i >= 0; i-- {
		sale := sales[i]

		clientName := sale.ClientName
		if clientName == "" {
			clientName = "Sem cliente"
		}

		for _, item := range sale.Items {
			productName := item.ProductName
			category := "—"
			if product, ok := productByID[item.ProductID]; ok {
				productName = product.Name
				category = product.Category
			} else if productName == "" {
				productName = "Produto removido"
			}

			row := []string{
				sale.CreatedAt.Format("2006-01-02"),
				clientName,
				productName,
				category,
				strconv.Itoa(item.Quantity),
				fmt.Sprintf("%.2f", item.Price),
				fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)),
				sale.PaymentMethod,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
