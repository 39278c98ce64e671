package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/order"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("admin access required")
	ErrOrderNotFound    = errors.New("order not found")
	ErrBadTransition    = errors.New("invalid status transition")
)

// HTTPAPI talks to the storefront admin endpoints using a session token.
type HTTPAPI struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type listResponse struct {
	Orders []order.Order `json:"orders"`
}

func (a *HTTPAPI) ListOrders(ctx context.Context, status order.Status) ([]order.Order, error) {
	url := a.BaseURL + "/api/admin/orders"
	if status != "" {
		url += "?status=" + string(status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	a.attachSession(req)

	res, err := a.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := checkStatus(res.StatusCode); err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode orders response: %w", err)
	}
	return out.Orders, nil
}

func (a *HTTPAPI) Transition(ctx context.Context, orderID string, status order.Status) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		a.BaseURL+"/api/admin/orders/"+orderID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	a.attachSession(req)

	res, err := a.client().Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkStatus(res.StatusCode)
}

func (a *HTTPAPI) attachSession(req *http.Request) {
	if a.Token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: a.Token})
	}
}

func (a *HTTPAPI) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

func checkStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrNotAuthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrOrderNotFound
	case http.StatusConflict:
		return ErrBadTransition
	default:
		return fmt.Errorf("admin request failed with status %d", code)
	}
}
