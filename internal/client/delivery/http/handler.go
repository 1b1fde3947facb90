package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lepaiper/pos/internal/client/domain"
	"github.com/lepaiper/pos/internal/client/usecase/command"
	"github.com/lepaiper/pos/internal/client/usecase/query"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

// ClientHandler handles HTTP requests for loyalty clients
type ClientHandler struct {
	createHandler *command.CreateClientHandler
	updateHandler *command.UpdateClientHandler
	deleteHandler *command.DeleteClientHandler
	listHandler   *query.ListClientsHandler
}

// NewClientHandler creates a new client handler
func NewClientHandler(repo domain.ClientRepository) *ClientHandler {
	return &ClientHandler{
		createHandler: command.NewCreateClientHandler(repo),
		updateHandler: command.NewUpdateClientHandler(repo),
		deleteHandler: command.NewDeleteClientHandler(repo),
		listHandler:   query.NewListClientsHandler(repo),
	}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/clients", mw.Authenticate(h.List)).Methods(http.MethodGet)
	router.HandleFunc("/clients", mw.RequireAdmin(h.Create)).Methods(http.MethodPost)
	router.HandleFunc("/clients/{id}", mw.RequireAdmin(h.Update)).Methods(http.MethodPut)
	router.HandleFunc("/clients/{id}", mw.RequireAdmin(h.Delete)).Methods(http.MethodDelete)
}

// List handles GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.listHandler.Handle(query.ListClientsQuery{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// Create handles POST /clients (admin only)
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.createHandler.Handle(command.CreateClientCommand{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, client)
}

// Update handles PUT /clients/{id} (admin only)
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.updateHandler.Handle(command.UpdateClientCommand{
		ID: id,
		Update: domain.ClientUpdate{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id} (admin only)
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.deleteHandler.Handle(command.DeleteClientCommand{ID: id}); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(userhttp.Response{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(userhttp.Response{Success: false, Error: message})
}
