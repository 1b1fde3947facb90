package command

import (
	"fmt"

	"github.com/lepaiper/pos/internal/client/domain"
)

// DeleteClientCommand represents the command to delete a client
type DeleteClientCommand struct {
	ID string
}

// DeleteClientHandler handles client deletion command
type DeleteClientHandler struct {
	repo domain.ClientRepository
}

// NewDeleteClientHandler creates a new delete client handler
func NewDeleteClientHandler(repo domain.ClientRepository) *DeleteClientHandler {
	return &DeleteClientHandler{repo: repo}
}

// Handle executes the delete client command. Historical sales keep their
// frozen client name; only the deleted flag is raised.
func (h *DeleteClientHandler) Handle(cmd DeleteClientCommand) error {
	if cmd.ID == "" {
		return fmt.Errorf("client id is required")
	}
	return h.repo.Delete(cmd.ID)
}
