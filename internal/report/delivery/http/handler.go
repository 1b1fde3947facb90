package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	"github.com/lepaiper/pos/internal/report/usecase/query"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
)

// ReportHandler handles HTTP requests for dashboards and reports
type ReportHandler struct {
	dashboardHandler *query.DashboardHandler
	reportsHandler   *query.ReportsHandler
	exportHandler    *query.ExportCSVHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(sales saledomain.SaleRepository, products catalogdomain.ProductRepository, clients clientdomain.ClientRepository) *ReportHandler {
	return &ReportHandler{
		dashboardHandler: query.NewDashboardHandler(sales, products, clients),
		reportsHandler:   query.NewReportsHandler(sales, products, clients),
		exportHandler:    query.NewExportCSVHandler(sales, products),
	}
}

// RegisterRoutes registers report routes. The CSV export is admin only,
// matching the checkout permission it mirrors.
func (h *ReportHandler) RegisterRoutes(router *mux.Router, mw *userhttp.Middleware) {
	router.HandleFunc("/dashboard", mw.Authenticate(h.Dashboard)).Methods(http.MethodGet)
	router.HandleFunc("/reports", mw.Authenticate(h.Reports)).Methods(http.MethodGet)
	router.HandleFunc("/reports/export", mw.RequireAdmin(h.Export)).Methods(http.MethodGet)
}

// Dashboard handles GET /dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardHandler.Handle(query.DashboardQuery{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Reports handles GET /reports?days=30
func (h *ReportHandler) Reports(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	data, err := h.reportsHandler.Handle(query.ReportsQuery{Days: days})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Export handles GET /reports/export?days=30 (admin only)
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	csvData, err := h.exportHandler.Handle(query.ExportCSVQuery{Days: days})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio-vendas.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(csvData)
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
