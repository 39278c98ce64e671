package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/order"
)

type OrderHandler struct {
	orders *order.Service
	logger *log.Logger
}

func NewOrderHandler(orders *order.Service, logger *log.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	Items           []order.Item          `json:"items"`
	ShippingDetails order.ShippingDetails `json:"shippingDetails"`
	PaymentMethod   order.PaymentSummary  `json:"paymentMethod"`
}

type createOrderResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

// Create places an order from the submitted cart snapshot. The caller clears
// its cart only after this succeeds; a failure here leaves no partial order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Create(ctx, id.ID, body.Items, body.ShippingDetails, body.PaymentMethod)
	if err != nil {
		if errors.Is(err, order.ErrInvalidItems) {
			writeError(w, http.StatusBadRequest, "invalid order items")
			return
		}
		h.logger.Printf("create order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Success:     true,
		OrderNumber: o.OrderNumber,
		OrderID:     o.ID,
	})
}

type orderResponse struct {
	Order *order.Order `json:"order"`
}

type ordersResponse struct {
	Orders []order.Order `json:"orders"`
}

// Get fetches one order by its customer-facing number. Non-owners get a 404
// whether or not the order exists.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderNumber := r.PathValue("orderNumber")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, "missing orderNumber")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.Get(ctx, orderNumber, id.ID, id.Admin)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Printf("get order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{Order: o})
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListForOwner(ctx, id.ID)
	if err != nil {
		h.logger.Printf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}
