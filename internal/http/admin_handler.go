package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/florawear/storefront/internal/order"
	"github.com/florawear/storefront/internal/user"
)

type AdminHandler struct {
	orders *order.Service
	users  user.Repository
	logger *log.Logger
}

func NewAdminHandler(orders *order.Service, users user.Repository, logger *log.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, users: users, logger: logger}
}

// ListOrders returns every order newest-first, optionally filtered by the
// status query parameter.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		status = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListAll(ctx, status)
	if err != nil {
		h.logger.Printf("list all orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

type transitionRequest struct {
	Status string `json:"status"`
}

type transitionResponse struct {
	Success bool         `json:"success"`
	Status  order.Status `json:"status"`
}

// TransitionOrder moves an order along the status state machine. Illegal
// edges come back as 409 with the order left untouched.
func (h *AdminHandler) TransitionOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Transition(ctx, orderID, status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "invalid status transition")
		default:
			h.logger.Printf("transition order: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{Success: true, Status: o.Status})
}

type adminUsersResponse struct {
	Users []user.User `json:"users"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.logger.Printf("list users: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	if users == nil {
		users = []user.User{}
	}

	writeJSON(w, http.StatusOK, adminUsersResponse{Users: users})
}
