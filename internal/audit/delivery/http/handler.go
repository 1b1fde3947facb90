package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lepaiper/pos/internal/audit/domain"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	repo domain.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(repo domain.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/audit", mw.RequireAdmin(h.List)).Methods(http.MethodGet)
}

// List handles GET /audit (admin only)
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	logs, err := h.repo.FindRecent(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, logs)
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
