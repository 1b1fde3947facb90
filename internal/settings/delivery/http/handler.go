package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lepaiper/pos/internal/settings/domain"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

const (
	maxKeyLength   = 100
	maxValueLength = 5000
)

// SettingsHandler handles HTTP requests for store settings
type SettingsHandler struct {
	repo domain.SettingRepository
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repo domain.SettingRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/settings", mw.Authenticate(h.GetAll)).Methods(http.MethodGet)
	router.HandleFunc("/settings", mw.RequireAdmin(h.UpdateMany)).Methods(http.MethodPut)
}

// GetAll handles GET /settings
func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.GetAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateMany handles PUT /settings (admin only)
func (h *SettingsHandler) UpdateMany(w http.ResponseWriter, r *http.Request) {
	var req []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entries := make(map[string]string, len(req))
	for _, entry := range req {
		if entry.Key == "" || len(entry.Key) > maxKeyLength {
			respondError(w, http.StatusBadRequest, "Setting key must be 1-100 characters")
			return
		}
		if len(entry.Value) > maxValueLength {
			respondError(w, http.StatusBadRequest, "Setting value too long")
			return
		}
		entries[entry.Key] = entry.Value
	}

	if err := h.repo.UpsertMany(entries); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	settings, err := h.repo.GetAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settings)
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
