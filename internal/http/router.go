package http

import (
	"encoding/json"
	"net/http"

	"github.com/florawear/storefront/internal/auth"
)

// NewRouter wires every endpoint of the commerce subsystem. Session identity
// is resolved once by the auth middleware; each handler group enforces its
// own requirement on top.
func NewRouter(authH *AuthHandler, wishH *WishlistHandler, orderH *OrderHandler, adminH *AdminHandler, issuer *auth.TokenIssuer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("POST /api/auth", authH.Authenticate)
	mux.HandleFunc("GET /api/auth/check", auth.RequireSession(authH.Check))
	mux.HandleFunc("POST /api/auth/logout", authH.Logout)
	mux.HandleFunc("PUT /api/auth/profile", auth.RequireSession(authH.UpdateProfile))

	mux.HandleFunc("GET /api/wishlist", auth.RequireSession(wishH.Get))
	mux.HandleFunc("POST /api/wishlist", auth.RequireSession(wishH.Toggle))

	mux.HandleFunc("POST /api/orders", auth.RequireSession(orderH.Create))
	mux.HandleFunc("GET /api/orders/user", auth.RequireSession(orderH.ListMine))
	mux.HandleFunc("GET /api/orders/{orderNumber}", auth.RequireSession(orderH.Get))

	mux.HandleFunc("GET /api/admin/orders", auth.RequireAdmin(adminH.ListOrders))
	mux.HandleFunc("PATCH /api/admin/orders/{orderId}", auth.RequireAdmin(adminH.TransitionOrder))
	mux.HandleFunc("GET /api/admin/users", auth.RequireAdmin(adminH.ListUsers))

	return auth.Session(issuer)(mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
