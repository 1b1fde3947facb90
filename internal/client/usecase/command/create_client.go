package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lepaiper/pos/internal/client/domain"
)

// CreateClientCommand represents the command to register a new client
type CreateClientCommand struct {
	Name  string
	Email string
	Phone string
}

// CreateClientHandler handles client creation command
type CreateClientHandler struct {
	repo domain.ClientRepository
}

// NewCreateClientHandler creates a new create client handler
func NewCreateClientHandler(repo domain.ClientRepository) *CreateClientHandler {
	return &CreateClientHandler{repo: repo}
}

// Handle executes the create client command
func (h *CreateClientHandler) Handle(cmd CreateClientCommand) (*domain.Client, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("client name is required")
	}

	client := &domain.Client{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		JoinDate:  time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
