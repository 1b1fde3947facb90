package command

import (
	"fmt"

	"github.com/lepaiper/pos/internal/catalog/domain"
)

// UpdateProductCommand represents a partial product edit
type UpdateProductCommand struct {
	ID     string
	Update domain.ProductUpdate
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if cmd.Update.Name != nil && *cmd.Update.Name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if cmd.Update.Price != nil && *cmd.Update.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	if cmd.Update.Cost != nil && *cmd.Update.Cost < 0 {
		return nil, fmt.Errorf("cost cannot be negative")
	}
	if cmd.Update.Stock != nil && *cmd.Update.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}
	if cmd.Update.MinStock != nil && *cmd.Update.MinStock < 0 {
		return nil, fmt.Errorf("minimum stock cannot be negative")
	}

	return h.repo.Update(cmd.ID, cmd.Update)
}
