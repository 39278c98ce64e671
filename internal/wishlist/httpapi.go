package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPAPI talks to the storefront wishlist endpoints. The http.Client is
// expected to carry the session cookie (cookie jar or injected transport).
type HTTPAPI struct {
	BaseURL string
	Client  *http.Client
}

type setResponse struct {
	Wishlist []string `json:"wishlist"`
}

func (a *HTTPAPI) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/api/wishlist", nil)
	if err != nil {
		return nil, err
	}
	return a.do(req)
}

func (a *HTTPAPI) Toggle(ctx context.Context, productID string) ([]string, error) {
	body, err := json.Marshal(map[string]string{"productId": productID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/wishlist", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *HTTPAPI) do(req *http.Request) ([]string, error) {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wishlist request failed: %s", res.Status)
	}

	var out setResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode wishlist response: %w", err)
	}
	return out.Wishlist, nil
}
