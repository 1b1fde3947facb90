package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lepaiper/pos/internal/user/domain"
	"github.com/lepaiper/pos/pkg/auth"
	"github.com/lepaiper/pos/pkg/logger"
	"github.com/lepaiper/pos/pkg/ratelimit"
)

// LoginUserCommand represents the command to log a user in
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo    domain.UserRepository
	limiter ratelimit.Limiter

	// Fixed delay before the password check to slow brute forcing down.
	// Kept as a field so tests can zero it.
	attemptDelay time.Duration
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, limiter ratelimit.Limiter) *LoginUserHandler {
	return &LoginUserHandler{
		repo:         repo,
		limiter:      limiter,
		attemptDelay: 800 * time.Millisecond,
	}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	email := strings.ToLower(cmd.Email)

	allowed, err := h.limiter.Allow(ctx, email)
	if err != nil {
		// A broken limiter must not lock everyone out
		logger.Warn(ctx).Err(err).Msg("Login rate limiter unavailable")
	} else if !allowed {
		logger.Warn(ctx).Str("email", email).Msg("Login rate limited")
		return nil, fmt.Errorf("too many login attempts, try again later")
	}

	user, err := h.repo.FindByEmail(email)
	if err != nil {
		// Same delay as the password path, so a missing account is not
		// distinguishable by timing
		time.Sleep(h.attemptDelay)
		return nil, fmt.Errorf("invalid credentials")
	}

	time.Sleep(h.attemptDelay)
	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := h.limiter.Reset(ctx, email); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to reset login rate limit")
	}

	token, err := auth.GenerateToken(user.ID, user.Email, domain.NormalizeRole(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}
