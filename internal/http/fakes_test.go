package http

import (
	"context"
	"database/sql"
	"io"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/florawear/storefront/internal/order"
	"github.com/florawear/storefront/internal/user"
)

var testLogger = log.New(io.Discard, "", 0)

// fakeUserRepo is an in-memory user.Repository.
type fakeUserRepo struct {
	users    map[string]*user.User // by id
	wishlist map[string]map[string]bool
	err      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*user.User),
		wishlist: make(map[string]map[string]bool),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, u *user.User) error {
	if f.err != nil {
		return f.err
	}
	if stored, ok := f.users[u.ID]; ok {
		cp := *u
		cp.PasswordHash = stored.PasswordHash
		f.users[u.ID] = &cp
	}
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []user.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Wishlist(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := []string{}
	for id := range f.wishlist[userID] {
		set = append(set, id)
	}
	sort.Strings(set)
	return set, nil
}

func (f *fakeUserRepo) ToggleWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.wishlist[userID] == nil {
		f.wishlist[userID] = make(map[string]bool)
	}
	if f.wishlist[userID][productID] {
		delete(f.wishlist[userID], productID)
	} else {
		f.wishlist[userID][productID] = true
	}
	return f.Wishlist(ctx, userID)
}

// fakeOrderRepo is an in-memory order.Repository with the same conditional
// status update contract as the real one.
type fakeOrderRepo struct {
	orders []*order.Order
	err    error
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	if f.err != nil {
		return f.err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	cp := *o
	f.orders = append(f.orders, &cp)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.orders {
		if o.ID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context, status order.Status) ([]order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []order.Order
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID string, to order.Status, from []order.Status) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	for _, o := range f.orders {
		if o.ID != orderID {
			continue
		}
		for _, s := range from {
			if o.Status == s {
				o.Status = to
				o.UpdatedAt = time.Now().UTC()
				return o.UpdatedAt, nil
			}
		}
	}
	return time.Time{}, sql.ErrNoRows
}
