package user

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	u := &User{
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Address1:     "1 Engine St",
		City:         "London",
		Postcode:     "N1 9GU",
		Phone:        "0123",
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), u.Email, u.PasswordHash, u.FirstName, u.LastName,
			u.Address1, u.Address2, u.City, u.Postcode, u.Phone, false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), u))
	require.NotEmpty(t, u.ID, "Create should assign an id")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.Create(context.Background(), &User{Email: "dup@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByEmail_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleWishlist_AddsWhenAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`)).
		WithArgs("user-1", "P1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)`)).
		WithArgs("user-1", "P1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY added_at`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow("P1"))
	mock.ExpectCommit()

	set, err := repo.ToggleWishlist(context.Background(), "user-1", "P1")
	require.NoError(t, err)
	require.Equal(t, []string{"P1"}, set)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleWishlist_RemovesWhenPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`)).
		WithArgs("user-1", "P1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY added_at`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))
	mock.ExpectCommit()

	set, err := repo.ToggleWishlist(context.Background(), "user-1", "P1")
	require.NoError(t, err)
	require.Empty(t, set)
	require.NoError(t, mock.ExpectationsWereMet())
}
