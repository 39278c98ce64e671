// Package admin is the order console client: it lists orders, surfaces the
// legal next states per order, and issues status transitions. It keeps only a
// local cache, which is dropped after every transition it performs — another
// admin may have moved the same order concurrently, so the cache is never
// trusted after a write.
package admin

import (
	"context"
	"sync"

	"github.com/florawear/storefront/internal/order"
)

// API is the privileged server boundary used by the console.
type API interface {
	ListOrders(ctx context.Context, status order.Status) ([]order.Order, error)
	Transition(ctx context.Context, orderID string, status order.Status) error
}

type Console struct {
	api API

	mu     sync.Mutex
	cache  []order.Order
	filter order.Status
	valid  bool
}

func NewConsole(api API) *Console {
	return &Console{api: api}
}

// Orders returns the order list for the given status filter, newest-first,
// re-fetching when the cache is invalid or the filter changed.
func (c *Console) Orders(ctx context.Context, status order.Status) ([]order.Order, error) {
	c.mu.Lock()
	if c.valid && c.filter == status {
		out := make([]order.Order, len(c.cache))
		copy(out, c.cache)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	orders, err := c.api.ListOrders(ctx, status)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache = orders
	c.filter = status
	c.valid = true
	out := make([]order.Order, len(orders))
	copy(out, orders)
	c.mu.Unlock()

	return out, nil
}

// NextStatuses lists the states reachable from the order's current status.
func (c *Console) NextStatuses(o order.Order) []order.Status {
	return order.NextStatuses(o.Status)
}

// Transition issues a status change and, on success, invalidates and
// re-fetches the cached list.
func (c *Console) Transition(ctx context.Context, orderID string, status order.Status) error {
	if err := c.api.Transition(ctx, orderID, status); err != nil {
		return err
	}

	c.mu.Lock()
	c.valid = false
	filter := c.filter
	c.mu.Unlock()

	_, err := c.Orders(ctx, filter)
	return err
}

// Invalidate drops the cache; the next Orders call hits the server.
func (c *Console) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
