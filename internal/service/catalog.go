package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tienda-api/internal/core/cache"
	"tienda-api/internal/core/config"
	"tienda-api/internal/domain"
	"tienda-api/internal/notify"
	"tienda-api/internal/repo"
)

// Catalog manages categories/products and the stock-level reporting the
// admins get by mail.
type Catalog struct {
	repo   *repo.CatalogRepo
	cache  *cache.Cache
	mailer notify.Mailer
	cfg    *config.Config
	log    *zap.Logger
}

func NewCatalog(r *repo.CatalogRepo, c *cache.Cache, mailer notify.Mailer, cfg *config.Config, log *zap.Logger) *Catalog {
	return &Catalog{repo: r, cache: c, mailer: mailer, cfg: cfg, log: log}
}

type ProductInput struct {
	Name       string          `json:"nombre" binding:"required"`
	Price      decimal.Decimal `json:"precio"`
	Stock      int             `json:"stock"`
	CategoryID uint            `json:"categoria" binding:"required"`
}

type ProductView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"nombre"`
	Price        decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	CategoryID   uint            `json:"categoria"`
	CategoryName string          `json:"categoria_nombre"`
}

// CategoryProducts is the public per-category listing payload.
type CategoryProducts struct {
	Category string        `json:"categoria"`
	Products []ProductView `json:"productos"`
}

func toView(p *domain.Product) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
	}
}

func catalogKey(categoryID uint) string {
	return fmt.Sprintf("catalog:categoria:%d", categoryID)
}

func (s *Catalog) invalidate(ctx context.Context, categoryIDs ...uint) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		keys = append(keys, catalogKey(id))
	}
	s.cache.Invalidate(ctx, keys...)
}

// --- categories ---

func (s *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return cats, nil
}

func (s *Catalog) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Validation("El nombre de la categoría es obligatorio.")
	}
	c := &domain.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, Validation("No se pudo crear la categoría: " + err.Error())
	}
	return c, nil
}

func (s *Catalog) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	if c == nil {
		return nil, NotFound("Categoría no encontrada")
	}
	if strings.TrimSpace(name) == "" {
		return nil, Validation("El nombre de la categoría es obligatorio.")
	}
	c.Name = name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, Internal(err)
	}
	s.invalidate(ctx, id)
	return c, nil
}

func (s *Catalog) DeleteCategory(ctx context.Context, id uint) error {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return Internal(err)
	}
	if c == nil {
		return NotFound("Categoría no encontrada")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return Internal(err)
	}
	s.invalidate(ctx, id)
	return nil
}

// --- products ---

func (s *Catalog) ListProducts(ctx context.Context) ([]ProductView, error) {
	ps, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]ProductView, 0, len(ps))
	for i := range ps {
		out = append(out, toView(&ps[i]))
	}
	return out, nil
}

func (s *Catalog) CreateProduct(ctx context.Context, in ProductInput) (*ProductView, error) {
	if err := s.validateProduct(in); err != nil {
		return nil, err
	}
	cat, err := s.repo.FindCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, Internal(err)
	}
	if cat == nil {
		return nil, NotFound("Categoría no encontrada")
	}
	p := &domain.Product{Name: in.Name, Price: in.Price, Stock: in.Stock, CategoryID: in.CategoryID}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, Internal(err)
	}
	p.Category = *cat
	s.invalidate(ctx, in.CategoryID)
	v := toView(p)
	return &v, nil
}

func (s *Catalog) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*ProductView, error) {
	if err := s.validateProduct(in); err != nil {
		return nil, err
	}
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	if p == nil {
		return nil, NotFound("Producto no encontrado")
	}
	cat, err := s.repo.FindCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, Internal(err)
	}
	if cat == nil {
		return nil, NotFound("Categoría no encontrada")
	}
	oldCategory := p.CategoryID
	p.Name = in.Name
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.Category = *cat
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, Internal(err)
	}
	s.invalidate(ctx, oldCategory, in.CategoryID)
	v := toView(p)
	return &v, nil
}

func (s *Catalog) DeleteProduct(ctx context.Context, id uint) error {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return Internal(err)
	}
	if p == nil {
		return NotFound("Producto no encontrado")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return Internal(err)
	}
	s.invalidate(ctx, p.CategoryID)
	return nil
}

func (s *Catalog) validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return Validation("El nombre del producto es obligatorio.")
	}
	if in.Price.IsNegative() {
		return Validation("El precio no puede ser negativo.")
	}
	if in.Stock < 0 {
		return Validation("El stock no puede ser negativo.")
	}
	return nil
}

// PublicByCategory serves the anonymous listing, read-through cached per
// category when redis is wired.
func (s *Catalog) PublicByCategory(ctx context.Context, categoryID uint) (*CategoryProducts, error) {
	load := func(ctx context.Context) (*CategoryProducts, error) {
		cat, err := s.repo.FindCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, NotFound("Categoría no encontrada")
		}
		ps, err := s.repo.ListProductsByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		out := &CategoryProducts{Category: cat.Name, Products: make([]ProductView, 0, len(ps))}
		for i := range ps {
			out.Products = append(out.Products, toView(&ps[i]))
		}
		return out, nil
	}

	if s.cache == nil {
		return load(ctx)
	}
	ttl := time.Duration(s.cfg.Redis.CatalogTTLSec) * time.Second
	out, err := cache.GetOrLoadJSON[CategoryProducts](s.cache, ctx, catalogKey(categoryID), ttl, load)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StockReport renders the three-tier classification of every product.
func StockReport(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Reporte de inventario:\n\n")
	for i := range products {
		p := &products[i]
		fmt.Fprintf(&b, "- %s: %d (%s)\n", p.Name, p.Stock, domain.ClassifyStock(p.Stock))
	}
	return b.String()
}

// InventoryReport mails the stock report to the configured admin address,
// synchronously: a transport failure surfaces to the caller.
func (s *Catalog) InventoryReport(ctx context.Context) error {
	ps, err := s.repo.ListProducts(ctx)
	if err != nil {
		return Internal(err)
	}
	msg := notify.Message{
		To:      []string{s.cfg.Mail.AdminAddr},
		Subject: "Reporte de inventario",
		Body:    StockReport(ps),
	}
	if err := s.mailer.Send(msg); err != nil {
		return MailFailure(err)
	}
	return nil
}
