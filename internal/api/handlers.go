// Package api is the read-only REST surface. It delegates to the store and
// never mutates.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

type Handler struct {
	store      *store.Store
	logger     *zap.Logger
	corsOrigin string
}

func NewHandler(st *store.Store, logger *zap.Logger, corsOrigin string) *Handler {
	return &Handler{store: st, logger: logger, corsOrigin: corsOrigin}
}

// Register wires the read endpoints onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stocks", h.withCORS(h.listStocks))
	mux.HandleFunc("GET /api/stocks/{symbol}", h.withCORS(h.getStock))
}

type listResponse struct {
	Success bool           `json:"success"`
	Data    []models.Stock `json:"data"`
	Count   int            `json:"count"`
}

type stockResponse struct {
	Success bool         `json:"success"`
	Data    models.Stock `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) listStocks(w http.ResponseWriter, r *http.Request) {
	stocks := h.store.GetAll()
	h.writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    stocks,
		Count:   len(stocks),
	})
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	stock, ok := h.store.Get(r.PathValue("symbol"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Success: false, Error: "Stock not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, stockResponse{Success: true, Data: stock})
}

func (h *Handler) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.corsOrigin)
		next(w, r)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Response encode error", zap.Error(err))
	}
}
