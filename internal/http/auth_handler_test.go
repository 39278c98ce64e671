package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/user"
)

func newTestAuthHandler(repo user.Repository) *AuthHandler {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthHandler(repo, issuer, time.Hour, false, 4, testLogger)
}

func registerBody() map[string]string {
	return map[string]string{
		"action":    "register",
		"email":     "ada@example.com",
		"password":  "hunter2",
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"address1":  "1 Engine St",
		"city":      "London",
		"postcode":  "N1 9GU",
		"phone":     "0123",
	}
}

func postAuth(t *testing.T, h *AuthHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.Authenticate(w, r)
	return w
}

func TestAuthenticate_Register(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	w := postAuth(t, h, registerBody())

	require.Equal(t, http.StatusCreated, w.Code)

	// session cookie is set as a side channel, independent of the body
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	var resp struct {
		User user.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)

	// password hash never leaves the server boundary
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NotContains(t, strings.ToLower(w.Body.String()), "passwordhash")
}

func TestAuthenticate_RegisterDuplicateEmail(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	require.Equal(t, http.StatusCreated, postAuth(t, h, registerBody()).Code)
	w := postAuth(t, h, registerBody())

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthenticate_RegisterMissingFields(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	body := registerBody()
	delete(body, "address1")
	w := postAuth(t, h, body)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticate_Login(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestAuthHandler(repo)
	require.Equal(t, http.StatusCreated, postAuth(t, h, registerBody()).Code)

	w := postAuth(t, h, map[string]string{
		"action":   "login",
		"email":    "ada@example.com",
		"password": "hunter2",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
}

func TestAuthenticate_LoginBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestAuthHandler(repo)
	require.Equal(t, http.StatusCreated, postAuth(t, h, registerBody()).Code)

	w := postAuth(t, h, map[string]string{
		"action":   "login",
		"email":    "ada@example.com",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthenticate_LoginUnknownEmail(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	w := postAuth(t, h, map[string]string{
		"action":   "login",
		"email":    "nobody@example.com",
		"password": "whatever",
	})

	// indistinguishable from a wrong password
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidAction(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	w := postAuth(t, h, map[string]string{"action": "impersonate"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck_ReturnsFreshUser(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestAuthHandler(repo)
	require.Equal(t, http.StatusCreated, postAuth(t, h, registerBody()).Code)

	var id string
	for uid := range repo.users {
		id = uid
	}

	r := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: id}))
	w := httptest.NewRecorder()
	h.Check(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User user.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestCheck_DeletedUser(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	r := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: "ghost"}))
	w := httptest.NewRecorder()
	h.Check(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newTestAuthHandler(newFakeUserRepo())

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	h := newTestAuthHandler(repo)
	require.Equal(t, http.StatusCreated, postAuth(t, h, registerBody()).Code)

	var id string
	for uid := range repo.users {
		id = uid
	}

	body, err := json.Marshal(map[string]string{
		"firstName": "Ada",
		"lastName":  "King",
		"address1":  "2 Analytical Way",
		"city":      "London",
		"postcode":  "N1 9GU",
		"phone":     "0456",
	})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body))
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: id}))
	w := httptest.NewRecorder()
	h.UpdateProfile(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "King", repo.users[id].LastName)
	assert.NotEmpty(t, repo.users[id].PasswordHash, "profile update must not wipe the hash")
}
