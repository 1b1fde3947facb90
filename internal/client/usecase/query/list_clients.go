package query

import (
	"fmt"

	"github.com/lepaiper/pos/internal/client/domain"
)

// ListClientsQuery represents the query to list all clients
type ListClientsQuery struct{}

// ListClientsHandler handles the list clients query
type ListClientsHandler struct {
	repo domain.ClientRepository
}

// NewListClientsHandler creates a new list clients handler
func NewListClientsHandler(repo domain.ClientRepository) *ListClientsHandler {
	return &ListClientsHandler{repo: repo}
}

// Handle executes the list clients query, most recent members first
func (h *ListClientsHandler) Handle(_ ListClientsQuery) ([]domain.Client, error) {
	clients, err := h.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
