package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is 1:1 with its user and created lazily on first access.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (Cart) TableName() string { return "carritos" }

// CartItem holds at most one row per (cart, product); re-adding a product
// overwrites the quantity.
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_carrito_producto;not null" json:"-"`
	Cart      Cart    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"uniqueIndex:idx_carrito_producto;not null" json:"producto"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int     `gorm:"not null;default:1" json:"cantidad"`
}

func (CartItem) TableName() string { return "items_carrito" }

// Subtotal reflects the product's current price, not the price when the
// line was added.
func (it *CartItem) Subtotal() decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
