package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	"github.com/lepaiper/pos/internal/sale/domain"
	"github.com/lepaiper/pos/internal/sale/usecase/command"
	"github.com/lepaiper/pos/internal/sale/usecase/query"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

// SaleHandler handles HTTP requests for checkout and sale history
type SaleHandler struct {
	createHandler *command.CreateSaleHandler
	recentHandler *query.RecentSalesHandler

	requestCounter *prometheus.CounterVec
	commitLatency  prometheus.Histogram
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(repo domain.SaleRepository, recorder command.AuditRecorder, publisher command.EventPublisher) *SaleHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_sale_requests_total",
			Help: "Total number of sale commit requests by outcome",
		},
		[]string{"outcome"},
	)

	commitLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_sale_commit_duration_seconds",
			Help:    "Duration of sale commits in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(commitLatency)

	return &SaleHandler{
		createHandler:  command.NewCreateSaleHandler(repo, recorder, publisher),
		recentHandler:  query.NewRecentSalesHandler(repo),
		requestCounter: requestCounter,
		commitLatency:  commitLatency,
	}
}

// RegisterRoutes registers sale routes. Checkout is admin only; the
// read-only role may browse history.
func (h *SaleHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/sales", mw.RequireAdmin(h.Create)).Methods(http.MethodPost)
	router.HandleFunc("/sales/recent", mw.Authenticate(h.Recent)).Methods(http.MethodGet)
}

// Create handles POST /sales: the sale commit
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID      *string           `json:"clientId"`
		PaymentMethod string            `json:"paymentMethod"`
		Items         []domain.LineItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	sale, err := h.createHandler.Handle(r.Context(), command.CreateSaleCommand{
		ClientID:      req.ClientID,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		ActorID:       userhttp.CallerID(r),
	})
	h.commitLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		// The status code tells the UI which recovery applies: fix the
		// input, refresh and retry, or try again later.
		switch {
		case domain.IsValidation(err):
			h.requestCounter.WithLabelValues("validation").Inc()
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalogdomain.ErrProductNotFound), errors.Is(err, clientdomain.ErrClientNotFound):
			h.requestCounter.WithLabelValues("not_found").Inc()
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrInsufficientStock):
			h.requestCounter.WithLabelValues("insufficient_stock").Inc()
			respondError(w, http.StatusConflict, err.Error())
		default:
			h.requestCounter.WithLabelValues("error").Inc()
			respondError(w, http.StatusInternalServerError, "Failed to commit sale")
		}
		return
	}

	h.requestCounter.WithLabelValues("committed").Inc()
	respondJSON(w, http.StatusCreated, sale)
}

// Recent handles GET /sales/recent
func (h *SaleHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sales, err := h.recentHandler.Handle(query.RecentSalesQuery{Limit: limit})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sales)
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
