package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrEmailTaken signals a registration attempt with an already-used email.
var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	List(ctx context.Context) ([]User, error)
	Wishlist(ctx context.Context, userID string) ([]string, error)
	ToggleWishlist(ctx context.Context, userID, productID string) ([]string, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, address1,
       COALESCE(address2, ''), city, postcode, phone, is_admin, created_at`

func (r *repo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, address1, address2, city, postcode, phone, is_admin)
         VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Address1, u.Address2, u.City, u.Postcode, u.Phone, u.Admin,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *repo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *repo) getWhere(ctx context.Context, cond string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+cond, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Address1, &u.Address2, &u.City, &u.Postcode, &u.Phone, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (r *repo) UpdateProfile(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
         SET first_name = $2, last_name = $3, address1 = $4, address2 = NULLIF($5, ''),
             city = $6, postcode = $7, phone = $8
         WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Address1, u.Address2, u.City, u.Postcode, u.Phone,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Address1, &u.Address2, &u.City, &u.Postcode, &u.Phone, &u.Admin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return users, nil
}

func (r *repo) Wishlist(ctx context.Context, userID string) ([]string, error) {
	return r.wishlistTx(ctx, r.db, userID)
}

// ToggleWishlist flips membership of productID in the user's wishlist set and
// returns the resulting set. The primary key on (user_id, product_id) keeps
// the set free of duplicates even under concurrent toggles.
func (r *repo) ToggleWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete wishlist item: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if removed == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
             ON CONFLICT DO NOTHING`,
			userID, productID,
		)
		if err != nil {
			return nil, fmt.Errorf("insert wishlist item: %w", err)
		}
	}

	set, err := r.wishlistTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return set, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *repo) wishlistTx(ctx context.Context, q querier, userID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY added_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	defer rows.Close()

	set := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		set = append(set, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return set, nil
}
