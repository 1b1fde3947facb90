package command

import (
	"fmt"

	"github.com/lepaiper/pos/internal/client/domain"
)

// UpdateClientCommand represents a partial client edit
type UpdateClientCommand struct {
	ID     string
	Update domain.ClientUpdate
}

// UpdateClientHandler handles client update command
type UpdateClientHandler struct {
	repo domain.ClientRepository
}

// NewUpdateClientHandler creates a new update client handler
func NewUpdateClientHandler(repo domain.ClientRepository) *UpdateClientHandler {
	return &UpdateClientHandler{repo: repo}
}

// Handle executes the update client command
func (h *UpdateClientHandler) Handle(cmd UpdateClientCommand) (*domain.Client, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if cmd.Update.Name != nil && *cmd.Update.Name == "" {
		return nil, fmt.Errorf("client name cannot be empty")
	}

	return h.repo.Update(cmd.ID, cmd.Update)
}
