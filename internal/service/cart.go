package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tienda-api/internal/domain"
	"tienda-api/internal/repo"
)

type Cart struct {
	carts   *repo.CartRepo
	catalog *repo.CatalogRepo
	users   *repo.UserRepo
	log     *zap.Logger
}

func NewCart(carts *repo.CartRepo, catalog *repo.CatalogRepo, users *repo.UserRepo, log *zap.Logger) *Cart {
	return &Cart{carts: carts, catalog: catalog, users: users, log: log}
}

type CartLineView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"producto"`
	ProductName string          `json:"producto_nombre"`
	Quantity    int             `json:"cantidad"`
	Price       decimal.Decimal `json:"precio"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	ID       uint           `json:"id"`
	Username string         `json:"usuario"`
	Items    []CartLineView `json:"items"`
}

func (s *Cart) buildView(ctx context.Context, userID uint, cart *domain.Cart) (*CartView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	view := &CartView{ID: cart.ID, Items: []CartLineView{}}
	if user != nil {
		view.Username = user.Username
	}
	lines, err := s.carts.Lines(ctx, cart.ID)
	if err != nil {
		return nil, Internal(err)
	}
	for i := range lines {
		it := &lines[i]
		view.Items = append(view.Items, CartLineView{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       it.Product.Price,
			Subtotal:    it.Subtotal(),
		})
	}
	return view, nil
}

// View returns the user's cart, creating it on first access.
func (s *Cart) View(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return s.buildView(ctx, userID, cart)
}

// AddOrUpdate puts a line in the cart; an existing line for the product
// gets its quantity overwritten, not incremented. The stock check is
// against live catalog stock, nothing is reserved.
func (s *Cart) AddOrUpdate(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, Validation("La cantidad debe ser al menos 1.")
	}
	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, Internal(err)
	}
	if product == nil {
		return nil, NotFound("Producto no encontrado")
	}
	if product.Stock < quantity {
		return nil, InsufficientStock("")
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	if err := s.carts.UpsertLine(ctx, cart.ID, productID, quantity); err != nil {
		return nil, Internal(err)
	}
	return s.buildView(ctx, userID, cart)
}

// Remove deletes the product's line from the user's cart.
func (s *Cart) Remove(ctx context.Context, userID, productID uint) error {
	cart, err := s.carts.Find(ctx, userID)
	if err != nil {
		return Internal(err)
	}
	if cart == nil {
		return NotFound("Carrito no encontrado.")
	}
	removed, err := s.carts.RemoveLine(ctx, cart.ID, productID)
	if err != nil {
		return Internal(err)
	}
	if !removed {
		return NotFound("Producto no encontrado en el carrito.")
	}
	return nil
}
