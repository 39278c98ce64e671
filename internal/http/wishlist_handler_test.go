package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florawear/storefront/internal/auth"
)

func wishlistToggle(t *testing.T, h *WishlistHandler, userID, productID string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"productId": productID})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/wishlist", bytes.NewReader(body))
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: userID}))
	w := httptest.NewRecorder()
	h.Toggle(w, r)
	return w
}

func decodeWishlist(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp struct {
		Wishlist []string `json:"wishlist"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Wishlist
}

func TestWishlistToggle_AddAndRemove(t *testing.T) {
	h := NewWishlistHandler(newFakeUserRepo(), testLogger)

	w := wishlistToggle(t, h, "user-1", "P1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"P1"}, decodeWishlist(t, w))

	w = wishlistToggle(t, h, "user-1", "P2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"P1", "P2"}, decodeWishlist(t, w))

	// toggle is its own inverse
	w = wishlistToggle(t, h, "user-1", "P1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"P2"}, decodeWishlist(t, w))
}

func TestWishlistToggle_MissingProductID(t *testing.T) {
	h := NewWishlistHandler(newFakeUserRepo(), testLogger)

	w := wishlistToggle(t, h, "user-1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWishlistGet_EmptySet(t *testing.T) {
	h := NewWishlistHandler(newFakeUserRepo(), testLogger)

	r := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: "user-1"}))
	w := httptest.NewRecorder()
	h.Get(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeWishlist(t, w))
	assert.Contains(t, w.Body.String(), `"wishlist":[]`, "empty set must encode as [], not null")
}

func TestWishlistGet_ScopedToIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	h := NewWishlistHandler(repo, testLogger)

	wishlistToggle(t, h, "user-1", "P1")

	r := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: "user-2"}))
	w := httptest.NewRecorder()
	h.Get(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeWishlist(t, w))
}
