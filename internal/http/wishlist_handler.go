package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/user"
)

type WishlistHandler struct {
	users  user.Repository
	logger *log.Logger
}

func NewWishlistHandler(users user.Repository, logger *log.Logger) *WishlistHandler {
	return &WishlistHandler{users: users, logger: logger}
}

type wishlistResponse struct {
	Wishlist []string `json:"wishlist"`
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	set, err := h.users.Wishlist(ctx, id.ID)
	if err != nil {
		h.logger.Printf("load wishlist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load wishlist")
		return
	}

	writeJSON(w, http.StatusOK, wishlistResponse{Wishlist: set})
}

type toggleRequest struct {
	ProductID string `json:"productId"`
}

// Toggle flips membership of a product in the caller's wishlist and returns
// the full resulting set; clients replace their local view with it.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var body toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	set, err := h.users.ToggleWishlist(ctx, id.ID, body.ProductID)
	if err != nil {
		h.logger.Printf("toggle wishlist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}

	writeJSON(w, http.StatusOK, wishlistResponse{Wishlist: set})
}
