package repo

import (
	"context"

	"gorm.io/gorm"

	"tienda-api/internal/domain"
)

type SaleRepo struct{ db *gorm.DB }

func NewSaleRepo(db *gorm.DB) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) CreateSale(ctx context.Context, s *domain.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SaleRepo) CreateDetail(ctx context.Context, d *domain.SaleDetail) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *SaleRepo) Details(ctx context.Context, saleID uint) ([]domain.SaleDetail, error) {
	var ds []domain.SaleDetail
	err := r.db.WithContext(ctx).Preload("Product").
		Where("sale_id = ?", saleID).Order("id asc").Find(&ds).Error
	return ds, err
}
