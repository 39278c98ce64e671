package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

var (
	// ErrNotFound covers both missing orders and orders the requester may not
	// see; collapsing the two avoids leaking existence to non-owners.
	ErrNotFound = errors.New("order not found")

	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidItems = errors.New("order requires at least one valid item")
)

// EventPublisher receives order lifecycle notifications. A nil publisher
// disables publishing.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID string, status Status) error
}

// Service is the sole writer of order state. Orders are created from a cart
// snapshot and only ever transitioned, never deleted.
type Service struct {
	repo   Repository
	events EventPublisher
	logger *log.Logger
}

func NewService(repo Repository, events EventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

// Create persists a new pending order from the submitted cart snapshot. The
// total is recomputed here; a client-supplied total is never trusted.
func (s *Service) Create(ctx context.Context, ownerID string, items []Item, shipping ShippingDetails, payment PaymentSummary) (*Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrInvalidItems)
	}
	if len(items) == 0 {
		return nil, ErrInvalidItems
	}

	total := 0.0
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: bad line for product %q", ErrInvalidItems, it.ProductID)
		}
		total += it.UnitPrice * float64(it.Quantity)
	}
	total = math.Round(total*100) / 100

	now := time.Now().UTC()
	o := &Order{
		OrderNumber:     NewOrderNumber(now),
		UserID:          ownerID,
		Items:           items,
		ShippingDetails: shipping,
		TotalAmount:     total,
		PaymentSummary:  payment,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	// The order is durable at this point; a publish failure must not undo it.
	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, o); err != nil {
			s.logger.Printf("publish order.created for %s: %v", o.OrderNumber, err)
		}
	}

	return o, nil
}

// Transition moves an order along the status state machine. Illegal edges
// fail with ErrInvalidTransition and leave the order untouched.
func (s *Service) Transition(ctx context.Context, orderID string, to Status) (*Order, error) {
	from := predecessors(to)
	if len(from) == 0 {
		// pending is the creation-only status; nothing transitions into it.
		return nil, ErrInvalidTransition
	}

	_, err := s.repo.UpdateStatus(ctx, orderID, to, from)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		// Zero rows: either the order does not exist, or its current status
		// does not permit this edge.
		o, getErr := s.repo.GetByID(ctx, orderID)
		if getErr != nil {
			return nil, getErr
		}
		if o == nil {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, orderID, to); err != nil {
			s.logger.Printf("publish order.status_changed for %s: %v", orderID, err)
		}
	}

	return o, nil
}

// Get returns the order when the requester owns it or is an administrator.
// Every other outcome is ErrNotFound.
func (s *Service) Get(ctx context.Context, orderNumber, requesterID string, admin bool) (*Order, error) {
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o == nil || (!admin && o.UserID != requesterID) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

func (s *Service) ListAll(ctx context.Context, status Status) ([]Order, error) {
	return s.repo.ListAll(ctx, status)
}
