package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

type createOrderRequest struct {
	CustomerEmail string               `json:"customerEmail"`
	Items         []domain.ItemRequest `json:"items"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateCreateOrder(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req.CustomerEmail, req.Items)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/orders/"+strconv.FormatInt(order.ID, 10))
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid parameter value for 'id'")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		result []domain.Order
		err    error
	)

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, parseErr := domain.ParseOrderStatus(raw)
		if parseErr != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid parameter value for 'status'")
			return
		}
		result, err = h.service.OrdersByStatus(r.Context(), status)
	} else {
		result, err = h.service.AllOrders(r.Context())
	}

	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		productNotFound domain.ProductNotFoundError
		orderNotFound   domain.OrderNotFoundError
		insufficient    domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &productNotFound):
		h.writeError(w, http.StatusNotFound, productNotFound.Error())
	case errors.As(err, &orderNotFound):
		h.writeError(w, http.StatusNotFound, orderNotFound.Error())
	case errors.As(err, &insufficient):
		h.writeError(w, http.StatusConflict, insufficient.Error())
	default:
		h.logger.Error("order request failed", "error", err)
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
