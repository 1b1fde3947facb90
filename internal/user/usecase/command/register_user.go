package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lepaiper/pos/internal/user/domain"
	"github.com/lepaiper/pos/pkg/auth"
)

// RegisterUserCommand represents the command to create a new user
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	email := strings.ToLower(cmd.Email)
	if existing, _ := h.repo.FindByEmail(email); existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Email:     email,
		Password:  hash,
		Role:      domain.NormalizeRole(cmd.Role),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
