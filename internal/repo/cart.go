package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tienda-api/internal/domain"
)

type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

// GetOrCreate is the lazy 1:1 cart per user.
func (r *CartRepo) GetOrCreate(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = domain.Cart{UserID: userID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepo) Find(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Lines returns the cart's items with their products loaded, so subtotals
// reflect current prices.
func (r *CartRepo) Lines(ctx context.Context, cartID uint) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error
	return items, err
}

// UpsertLine overwrites the quantity when a line for the product already
// exists; there is never more than one row per (cart, product).
func (r *CartRepo) UpsertLine(ctx context.Context, cartID, productID uint, quantity int) error {
	var item domain.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = domain.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
		return r.db.WithContext(ctx).Create(&item).Error
	}
	if err != nil {
		return err
	}
	item.Quantity = quantity
	return r.db.WithContext(ctx).Save(&item).Error
}

func (r *CartRepo) RemoveLine(ctx context.Context, cartID, productID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&domain.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepo) Clear(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}
