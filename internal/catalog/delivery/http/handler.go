package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lepaiper/pos/internal/catalog/domain"
	"github.com/lepaiper/pos/internal/catalog/usecase/command"
	"github.com/lepaiper/pos/internal/catalog/usecase/query"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	createHandler   *command.CreateProductHandler
	updateHandler   *command.UpdateProductHandler
	deleteHandler   *command.DeleteProductHandler
	listHandler     *query.ListProductsHandler
	lowStockHandler *query.LowStockHandler
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.ProductRepository) *ProductHandler {
	return &ProductHandler{
		createHandler:   command.NewCreateProductHandler(repo),
		updateHandler:   command.NewUpdateProductHandler(repo),
		deleteHandler:   command.NewDeleteProductHandler(repo),
		listHandler:     query.NewListProductsHandler(repo),
		lowStockHandler: query.NewLowStockHandler(repo),
	}
}

// RegisterRoutes registers product routes. Reads need authentication,
// mutations need admin.
func (h *ProductHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/products", mw.Authenticate(h.List)).Methods(http.MethodGet)
	router.HandleFunc("/products/low-stock", mw.Authenticate(h.LowStock)).Methods(http.MethodGet)
	router.HandleFunc("/products", mw.RequireAdmin(h.Create)).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}", mw.RequireAdmin(h.Update)).Methods(http.MethodPut)
	router.HandleFunc("/products/{id}", mw.RequireAdmin(h.Delete)).Methods(http.MethodDelete)
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.listHandler.Handle(query.ListProductsQuery{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.lowStockHandler.Handle(query.LowStockQuery{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Create handles POST /products (admin only)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Cost     float64 `json:"cost"`
		Stock    int     `json:"stock"`
		MinStock int     `json:"min_stock"`
		Color    string  `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Color:    req.Color,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id} (admin only)
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
		Cost     *float64 `json:"cost"`
		Stock    *int     `json:"stock"`
		MinStock *int     `json:"min_stock"`
		Color    *string  `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.updateHandler.Handle(command.UpdateProductCommand{
		ID: id,
		Update: domain.ProductUpdate{
			Name:     req.Name,
			Category: req.Category,
			Price:    req.Price,
			Cost:     req.Cost,
			Stock:    req.Stock,
			MinStock: req.MinStock,
			Color:    req.Color,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id} (admin only)
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: id}); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
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
