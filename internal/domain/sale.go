package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale and its details are an append-only audit trail; rows are never
// mutated after checkout commits them.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"usuario"`
	User          User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Total         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	PaymentMethod string          `gorm:"size:50;not null" json:"metodo_pago"`
	CreatedAt     time.Time       `json:"creado_en"`
}

func (Sale) TableName() string { return "ventas" }

// SaleDetail references the product row but freezes quantity and unit
// price as of purchase time.
type SaleDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"index;not null" json:"-"`
	Sale      Sale            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint            `gorm:"not null" json:"producto_id"`
	Product   Product         `json:"-"`
	Quantity  int             `gorm:"not null" json:"cantidad"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"precio_unitario"`
}

func (SaleDetail) TableName() string { return "detalles_venta" }

func (d *SaleDetail) Subtotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
