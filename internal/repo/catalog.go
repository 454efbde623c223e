package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tienda-api/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.WithContext(ctx).Order("id asc").Find(&cats).Error
	return cats, err
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepo) FindCategory(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory cascades to the category's products.
func (r *CatalogRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Category{}).Error
	})
}

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("id asc").Find(&ps).Error
	return ps, err
}

func (r *CatalogRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ?", categoryID).Order("id asc").Find(&ps).Error
	return ps, err
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogRepo) FindProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *CatalogRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}
