package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"nombre"`
}

func (Category) TableName() string { return "categorias" }

type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"size:200;not null" json:"nombre"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"precio"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	CategoryID uint            `gorm:"index;not null" json:"categoria"`
	Category   Category        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string { return "productos" }

// Stock classification tiers used by the inventory report and the
// post-sale stock mail.
const (
	StockOut     = "AGOTADO"
	StockAlmost  = "CASI AGOTADO"
	StockHealthy = "OK"
)

// ClassifyStock is deterministic: 0 is out, 1-2 almost out, 3+ healthy.
func ClassifyStock(stock int) string {
	switch {
	case stock == 0:
		return StockOut
	case stock <= 2:
		return StockAlmost
	default:
		return StockHealthy
	}
}
