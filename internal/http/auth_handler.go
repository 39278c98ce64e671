package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/user"
)

type AuthHandler struct {
	users        user.Repository
	issuer       *auth.TokenIssuer
	sessionTTL   time.Duration
	cookieSecure bool
	bcryptCost   int
	logger       *log.Logger
}

func NewAuthHandler(users user.Repository, issuer *auth.TokenIssuer, sessionTTL time.Duration, cookieSecure bool, bcryptCost int, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		users:        users,
		issuer:       issuer,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
		bcryptCost:   bcryptCost,
		logger:       logger,
	}
}

type authRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Registration-only fields.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
}

type userResponse struct {
	User *user.User `json:"user"`
}

// Authenticate handles both register and login, selected by the action field.
// On success the session token is set as an httpOnly cookie, independent of
// the JSON body.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var body authRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch body.Action {
	case "register":
		h.register(ctx, w, body)
	case "login":
		h.login(ctx, w, body)
	default:
		writeError(w, http.StatusBadRequest, "invalid action")
	}
}

func (h *AuthHandler) register(ctx context.Context, w http.ResponseWriter, body authRequest) {
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" ||
		body.Address1 == "" || body.City == "" || body.Postcode == "" || body.Phone == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	hash, err := auth.HashPassword(body.Password, h.bcryptCost)
	if err != nil {
		h.logger.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	u := &user.User{
		Email:        body.Email,
		PasswordHash: hash,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Address1:     body.Address1,
		Address2:     body.Address2,
		City:         body.City,
		Postcode:     body.Postcode,
		Phone:        body.Phone,
	}

	if err := h.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already exists")
			return
		}
		h.logger.Printf("create user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.startSession(w, u)
	writeJSON(w, http.StatusCreated, userResponse{User: u})
}

func (h *AuthHandler) login(ctx context.Context, w http.ResponseWriter, body authRequest) {
	email := strings.TrimSpace(strings.ToLower(body.Email))

	u, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		h.logger.Printf("load user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}
	// Same response for unknown email and wrong password.
	if u == nil || auth.CheckPassword(u.PasswordHash, body.Password) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.startSession(w, u)
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, u *user.User) {
	token, err := h.issuer.Issue(auth.Identity{ID: u.ID, Email: u.Email, Admin: u.Admin})
	if err != nil {
		h.logger.Printf("issue token: %v", err)
		return
	}
	auth.SetSessionCookie(w, token, int(h.sessionTTL.Seconds()), h.cookieSecure)
}

// Check resolves the current identity against the live user record, so a
// deleted account stops authenticating even with a still-valid token.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.GetByID(ctx, id.ID)
	if err != nil {
		h.logger.Printf("load user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to check session")
		return
	}
	if u == nil {
		auth.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: u})
}

// Logout clears the session cookie. The token carries no server-side state,
// so there is nothing to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var body profileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.FirstName == "" || body.LastName == "" || body.Address1 == "" ||
		body.City == "" || body.Postcode == "" || body.Phone == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.GetByID(ctx, id.ID)
	if err != nil {
		h.logger.Printf("load user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	u.FirstName = body.FirstName
	u.LastName = body.LastName
	u.Address1 = body.Address1
	u.Address2 = body.Address2
	u.City = body.City
	u.Postcode = body.Postcode
	u.Phone = body.Phone

	if err := h.users.UpdateProfile(ctx, u); err != nil {
		h.logger.Printf("update profile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: u})
}
