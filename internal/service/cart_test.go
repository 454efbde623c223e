package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda-api/internal/domain"
	"tienda-api/internal/repo"
)

func newCart(t *testing.T, db *gorm.DB) *Cart {
	t.Helper()
	return NewCart(repo.NewCartRepo(db), repo.NewCatalogRepo(db), repo.NewUserRepo(db), zap.NewNop())
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: domain.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *domain.Product {
	t.Helper()
	cat := &domain.Category{Name: "cat-" + name}
	require.NoError(t, db.Create(cat).Error)
	p := &domain.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: cat.ID}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCartViewCreatesOnFirstAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newCart(t, db)
	user := seedUser(t, db, "ana")

	view, err := svc.View(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "ana", view.Username)
	require.Empty(t, view.Items)

	again, err := svc.View(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, view.ID, again.ID)
}

func TestCartAddOverwritesQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := newCart(t, db)
	user := seedUser(t, db, "ana")
	product := seedProduct(t, db, "Camiseta", "10.00", 5)
	ctx := context.Background()

	view, err := svc.AddOrUpdate(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.Items[0].Quantity)
	require.True(t, view.Items[0].Subtotal.Equal(decimal.RequireFromString("30.00")))

	// re-adding replaces the quantity, it never accumulates
	view, err = svc.AddOrUpdate(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 2, view.Items[0].Quantity)
	require.True(t, view.Items[0].Subtotal.Equal(decimal.RequireFromString("20.00")))
}

func TestCartAddValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCart(t, db)
	user := seedUser(t, db, "ana")
	product := seedProduct(t, db, "Camiseta", "10.00", 5)
	ctx := context.Background()

	_, err := svc.AddOrUpdate(ctx, user.ID, product.ID, 0)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.AddOrUpdate(ctx, user.ID, 9999, 1)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.AddOrUpdate(ctx, user.ID, product.ID, 6)
	requireStatus(t, err, http.StatusBadRequest)

	// stock is checked, never reserved
	_, err = svc.AddOrUpdate(ctx, user.ID, product.ID, 5)
	require.NoError(t, err)
	var p domain.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	require.Equal(t, 5, p.Stock)
}

func TestCartRemove(t *testing.T) {
	db := newTestDB(t)
	svc := newCart(t, db)
	user := seedUser(t, db, "ana")
	product := seedProduct(t, db, "Camiseta", "10.00", 5)
	ctx := context.Background()

	// no cart yet
	err := svc.Remove(ctx, user.ID, product.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.AddOrUpdate(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, user.ID, product.ID))

	// line already gone
	err = svc.Remove(ctx, user.ID, product.ID)
	requireStatus(t, err, http.StatusNotFound)

	view, err := svc.View(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}
