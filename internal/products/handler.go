package products

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itccompliance/order-inventory/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type createProductRequest struct {
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Price             *decimal.Decimal `json:"price"`
	AvailableQuantity int              `json:"availableQuantity"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateCreateProduct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := &domain.Product{
		SKU:               req.SKU,
		Name:              req.Name,
		Price:             *req.Price,
		AvailableQuantity: req.AvailableQuantity,
	}

	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("product created", "sku", created.SKU, "available_quantity", created.AvailableQuantity)
	w.Header().Set("Location", "/products/"+created.SKU)
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	product, err := h.service.GetBySKU(r.Context(), sku)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		h.writeError(w, http.StatusBadRequest, "required parameter 'threshold' is not present")
		return
	}

	threshold, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid parameter value for 'threshold'")
		return
	}
	if threshold < 0 {
		h.writeError(w, http.StatusBadRequest, "threshold: must be greater than or equal to 0")
		return
	}

	result, err := h.service.BelowOrEqual(r.Context(), threshold)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if result == nil {
		result = []domain.Product{}
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateProductUpdate(upd); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), sku, upd)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("product updated", "sku", updated.SKU)
	h.writeJSON(w, http.StatusOK, updated)
}

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		duplicateErr domain.DuplicateSKUError
		notFoundErr  domain.ProductNotFoundError
	)
	switch {
	case errors.As(err, &duplicateErr):
		h.writeError(w, http.StatusBadRequest, duplicateErr.Error())
	case errors.As(err, &notFoundErr):
		h.writeError(w, http.StatusNotFound, notFoundErr.Error())
	default:
		h.logger.Error("product request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{
		Timestamp: time.Now().UTC(),
		Error:     http.StatusText(status),
		Message:   message,
	})
}
