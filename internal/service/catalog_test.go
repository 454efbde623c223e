package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda-api/internal/domain"
	"tienda-api/internal/repo"
)

func newCatalog(t *testing.T, db *gorm.DB) (*Catalog, *fakeMailer) {
	t.Helper()
	mailer := &fakeMailer{}
	return NewCatalog(repo.NewCatalogRepo(db), nil, mailer, testConfig(), zap.NewNop()), mailer
}

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCatalog(t, db)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "  ")
	requireStatus(t, err, http.StatusBadRequest)

	cat, err := svc.CreateCategory(ctx, "Ropa")
	require.NoError(t, err)
	require.NotZero(t, cat.ID)

	// category names are unique
	_, err = svc.CreateCategory(ctx, "Ropa")
	requireStatus(t, err, http.StatusBadRequest)

	cat, err = svc.UpdateCategory(ctx, cat.ID, "Calzado")
	require.NoError(t, err)
	require.Equal(t, "Calzado", cat.Name)

	_, err = svc.UpdateCategory(ctx, 9999, "X")
	requireStatus(t, err, http.StatusNotFound)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	err = svc.DeleteCategory(ctx, cat.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestProductCRUD(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCatalog(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Ropa")
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "", CategoryID: cat.ID})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", Price: decimal.NewFromInt(-1), CategoryID: cat.ID})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", Stock: -1, CategoryID: cat.ID})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", CategoryID: 9999})
	requireStatus(t, err, http.StatusNotFound)

	p, err := svc.CreateProduct(ctx, ProductInput{
		Name:       "Camiseta",
		Price:      decimal.RequireFromString("10.00"),
		Stock:      5,
		CategoryID: cat.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Ropa", p.CategoryName)

	otra, err := svc.CreateCategory(ctx, "Ofertas")
	require.NoError(t, err)
	p, err = svc.UpdateProduct(ctx, p.ID, ProductInput{
		Name:       "Camiseta básica",
		Price:      decimal.RequireFromString("8.50"),
		Stock:      2,
		CategoryID: otra.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Ofertas", p.CategoryName)
	require.True(t, p.Price.Equal(decimal.RequireFromString("8.50")))

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	err = svc.DeleteProduct(ctx, p.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestDeleteCategoryCascadesProducts(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCatalog(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Ropa")
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", Price: decimal.NewFromInt(10), Stock: 1, CategoryID: cat.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPublicByCategory(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCatalog(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Ropa")
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", Price: decimal.NewFromInt(10), Stock: 5, CategoryID: cat.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Gorra", Price: decimal.NewFromInt(5), Stock: 0, CategoryID: cat.ID})
	require.NoError(t, err)

	out, err := svc.PublicByCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.Equal(t, "Ropa", out.Category)
	require.Len(t, out.Products, 2)

	_, err = svc.PublicByCategory(ctx, 9999)
	requireStatus(t, err, http.StatusNotFound)
}

func TestStockReport(t *testing.T) {
	report := StockReport([]domain.Product{
		{Name: "Camiseta", Stock: 0},
		{Name: "Gorra", Stock: 2},
		{Name: "Pantalón", Stock: 10},
	})
	require.Contains(t, report, "- Camiseta: 0 (AGOTADO)")
	require.Contains(t, report, "- Gorra: 2 (CASI AGOTADO)")
	require.Contains(t, report, "- Pantalón: 10 (OK)")
}

func TestInventoryReport(t *testing.T) {
	db := newTestDB(t)
	svc, mailer := newCatalog(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Ropa")
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Camiseta", Price: decimal.NewFromInt(10), Stock: 1, CategoryID: cat.ID})
	require.NoError(t, err)

	require.NoError(t, svc.InventoryReport(ctx))
	require.Len(t, mailer.msgs, 1)
	require.Equal(t, []string{"admin@ecommerce.com"}, mailer.msgs[0].To)
	require.Contains(t, mailer.msgs[0].Body, "Camiseta: 1 (CASI AGOTADO)")

	// a transport failure surfaces, unlike the async notifications
	mailer.err = errors.New("smtp down")
	err = svc.InventoryReport(ctx)
	requireStatus(t, err, http.StatusInternalServerError)
}
