package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lepaiper/pos/internal/catalog/domain"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name     string
	Category string
	Price    float64
	Cost     float64
	Stock    int
	MinStock int
	Color    string
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if cmd.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	if cmd.Cost < 0 {
		return nil, fmt.Errorf("cost cannot be negative")
	}
	if cmd.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}
	if cmd.MinStock < 0 {
		return nil, fmt.Errorf("minimum stock cannot be negative")
	}

	product := &domain.Product{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Category:  cmd.Category,
		Price:     cmd.Price,
		Cost:      cmd.Cost,
		Stock:     cmd.Stock,
		MinStock:  cmd.MinStock,
		Color:     cmd.Color,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
