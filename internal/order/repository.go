package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context, status Status) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, to Status, from []Status) (time.Time, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	shipping, err := json.Marshal(o.ShippingDetails)
	if err != nil {
		return fmt.Errorf("marshal shipping details: %w", err)
	}
	payment, err := json.Marshal(o.PaymentSummary)
	if err != nil {
		return fmt.Errorf("marshal payment summary: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, order_number, user_id, shipping_details, payment_summary, total_amount, status, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.OrderNumber, o.UserID, shipping, payment, o.TotalAmount, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, image_ref)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.UnitPrice, it.Quantity, it.ImageRef,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const orderColumns = `id, order_number, user_id, shipping_details, payment_summary, total_amount, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o        Order
		shipping []byte
		payment  []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &shipping, &payment,
		&o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shipping, &o.ShippingDetails); err != nil {
		return nil, fmt.Errorf("unmarshal shipping details: %w", err)
	}
	if err := json.Unmarshal(payment, &o.PaymentSummary); err != nil {
		return nil, fmt.Errorf("unmarshal payment summary: %w", err)
	}
	return &o, nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return r.getWhere(ctx, "id = $1", orderID)
}

func (r *repo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.getWhere(ctx, "order_number = $1", orderNumber)
}

func (r *repo) getWhere(ctx context.Context, cond string, arg any) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+cond, arg)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, unit_price, quantity, image_ref
         FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity, &it.ImageRef); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

// ListAll returns every order newest-first, optionally filtered by status.
func (r *repo) ListAll(ctx context.Context, status Status) ([]Order, error) {
	if status == "" {
		return r.list(ctx,
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	}
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`,
		status)
}

func (r *repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus applies the transition as a single conditional update keyed by
// order id: the row changes only if its current status is one of the legal
// predecessors of `to`. There is no read-modify-write pair to lose updates to.
func (r *repo) UpdateStatus(ctx context.Context, orderID string, to Status, from []Status) (time.Time, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW()
         WHERE id = $1 AND status = ANY($3)
         RETURNING updated_at`,
		orderID, to, pq.Array(states),
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, sql.ErrNoRows
		}
		return time.Time{}, fmt.Errorf("update order status: %w", err)
	}
	return updatedAt, nil
}
