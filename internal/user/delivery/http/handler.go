package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lepaiper/pos/internal/user/domain"
	"github.com/lepaiper/pos/internal/user/usecase/command"
	"github.com/lepaiper/pos/pkg/ratelimit"
)

// Response is the standard JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UserHandler handles HTTP requests for authentication and user profiles
type UserHandler struct {
	loginHandler    *command.LoginUserHandler
	registerHandler *command.RegisterUserHandler
	repo            domain.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository, limiter ratelimit.Limiter) *UserHandler {
	return &UserHandler{
		loginHandler:    command.NewLoginUserHandler(repo, limiter),
		registerHandler: command.NewRegisterUserHandler(repo),
		repo:            repo,
	}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router, mw *Middleware) {
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/me", mw.Authenticate(h.Me)).Methods(http.MethodGet)
	router.HandleFunc("/users", mw.RequireAdmin(h.Create)).Methods(http.MethodPost)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Me handles GET /auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.FindByID(CallerID(r))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Create handles POST /users (admin only)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}
