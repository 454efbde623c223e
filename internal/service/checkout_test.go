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
)

func newCheckout(t *testing.T, db *gorm.DB) (*Checkout, *fakeOutbox) {
	t.Helper()
	outbox := &fakeOutbox{}
	return NewCheckout(db, outbox, testConfig(), zap.NewNop()), outbox
}

func TestFinalizeRecordsSaleAndNotifies(t *testing.T) {
	db := newTestDB(t)
	cart := newCart(t, db)
	svc, outbox := newCheckout(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "ana")
	p1 := seedProduct(t, db, "Camiseta", "10.00", 5)
	p2 := seedProduct(t, db, "Gorra", "5.00", 1)

	_, err := cart.AddOrUpdate(ctx, user.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddOrUpdate(ctx, user.ID, p2.ID, 1)
	require.NoError(t, err)

	sale, err := svc.Finalize(ctx, user.ID, "tarjeta")
	require.NoError(t, err)
	require.Equal(t, "ana", sale.Username)
	require.Equal(t, "tarjeta", sale.PaymentMethod)
	require.True(t, sale.Total.Equal(decimal.RequireFromString("25.00")), "total was %s", sale.Total)
	require.Len(t, sale.Details, 2)
	require.True(t, sale.Details[0].UnitPrice.Equal(p1.Price))
	require.True(t, sale.Details[0].Subtotal.Equal(decimal.RequireFromString("20.00")))

	// stock decremented
	var q1, q2 domain.Product
	require.NoError(t, db.First(&q1, p1.ID).Error)
	require.NoError(t, db.First(&q2, p2.ID).Error)
	require.Equal(t, 3, q1.Stock)
	require.Equal(t, 0, q2.Stock)

	// cart emptied, sale and details persisted
	view, err := cart.View(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	var details int64
	require.NoError(t, db.Model(&domain.SaleDetail{}).Where("sale_id = ?", sale.ID).Count(&details).Error)
	require.EqualValues(t, 2, details)

	// receipt + admin alert + stock report
	require.Len(t, outbox.msgs, 3)
	require.Equal(t, []string{"ana@example.com"}, outbox.msgs[0].To)
	require.Contains(t, outbox.msgs[0].Body, "Camiseta x2 = $20.00")
	require.Contains(t, outbox.msgs[1].Subject, "Nueva venta")
	require.Equal(t, []string{"admin@ecommerce.com"}, outbox.msgs[1].To)
	require.Contains(t, outbox.msgs[2].Body, "Gorra: 0 (AGOTADO)")
}

func TestFinalizeEmptyCart(t *testing.T) {
	db := newTestDB(t)
	cart := newCart(t, db)
	svc, outbox := newCheckout(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "ana")

	// no cart row at all
	_, err := svc.Finalize(ctx, user.ID, "")
	requireStatus(t, err, http.StatusBadRequest)

	// cart exists but has no lines
	_, err = cart.View(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, user.ID, "")
	requireStatus(t, err, http.StatusBadRequest)

	var sales int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&sales).Error)
	require.Zero(t, sales)
	require.Empty(t, outbox.msgs)
}

func TestFinalizeRollsBackOnInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	cart := newCart(t, db)
	svc, outbox := newCheckout(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "ana")
	p1 := seedProduct(t, db, "Camiseta", "10.00", 5)
	p2 := seedProduct(t, db, "Gorra", "5.00", 3)

	_, err := cart.AddOrUpdate(ctx, user.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddOrUpdate(ctx, user.ID, p2.ID, 3)
	require.NoError(t, err)

	// stock dropped after the lines were added
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", p2.ID).Update("stock", 1).Error)

	_, err = svc.Finalize(ctx, user.ID, "")
	requireStatus(t, err, http.StatusBadRequest)
	require.Contains(t, err.Error(), "Gorra")

	// everything rolled back: no sale rows, stocks untouched, cart intact
	var sales, details int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&sales).Error)
	require.NoError(t, db.Model(&domain.SaleDetail{}).Count(&details).Error)
	require.Zero(t, sales)
	require.Zero(t, details)

	var q1 domain.Product
	require.NoError(t, db.First(&q1, p1.ID).Error)
	require.Equal(t, 5, q1.Stock)

	view, err := cart.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.Empty(t, outbox.msgs)
}

func TestFinalizeDefaultsPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	cart := newCart(t, db)
	svc, _ := newCheckout(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "ana")
	p := seedProduct(t, db, "Camiseta", "10.00", 5)
	_, err := cart.AddOrUpdate(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)

	sale, err := svc.Finalize(ctx, user.ID, "")
	require.NoError(t, err)
	require.Equal(t, "efectivo", sale.PaymentMethod)
}

func TestFinalizeChargesCurrentPrice(t *testing.T) {
	db := newTestDB(t)
	cart := newCart(t, db)
	svc, _ := newCheckout(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "ana")
	p := seedProduct(t, db, "Camiseta", "10.00", 5)
	_, err := cart.AddOrUpdate(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)

	// price changes between add and checkout; the sale freezes the new one
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("12.50")).Error)

	sale, err := svc.Finalize(ctx, user.ID, "")
	require.NoError(t, err)
	require.True(t, sale.Total.Equal(decimal.RequireFromString("25.00")))
	require.True(t, sale.Details[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
}
