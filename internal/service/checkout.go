package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda-api/internal/core/config"
	"tienda-api/internal/domain"
	"tienda-api/internal/notify"
	"tienda-api/internal/repo"
)

// Checkout converts a cart into an immutable sale. The whole operation
// runs inside one transaction: a failed stock check on any line rolls
// back every detail row and decrement already applied.
type Checkout struct {
	db     *gorm.DB
	outbox Notifier
	cfg    *config.Config
	log    *zap.Logger
}

func NewCheckout(db *gorm.DB, outbox Notifier, cfg *config.Config, log *zap.Logger) *Checkout {
	return &Checkout{db: db, outbox: outbox, cfg: cfg, log: log}
}

type SaleDetailView struct {
	Product   string          `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleView struct {
	ID            uint             `json:"id"`
	Username      string           `json:"usuario"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"metodo_pago"`
	CreatedAt     time.Time        `json:"creado_en"`
	Details       []SaleDetailView `json:"detalles"`
}

// Finalize records the sale, decrements stock, empties the cart and, after
// commit, enqueues the receipt, the admin sale alert and the stock report.
func (s *Checkout) Finalize(ctx context.Context, userID uint, paymentMethod string) (*SaleView, error) {
	if paymentMethod == "" {
		paymentMethod = "efectivo"
	}

	var (
		user *domain.User
		view *SaleView
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		carts := repo.NewCartRepo(tx)
		sales := repo.NewSaleRepo(tx)

		var err error
		user, err = users.FindByID(ctx, userID)
		if err != nil {
			return Internal(err)
		}
		if user == nil {
			return NotFound("Usuario no encontrado.")
		}

		cart, err := carts.Find(ctx, userID)
		if err != nil {
			return Internal(err)
		}
		if cart == nil {
			return EmptyCart()
		}
		lines, err := carts.Lines(ctx, cart.ID)
		if err != nil {
			return Internal(err)
		}
		if len(lines) == 0 {
			return EmptyCart()
		}

		// Total at current prices, which may differ from add-time prices.
		total := decimal.Zero
		for i := range lines {
			total = total.Add(lines[i].Subtotal())
		}

		sale := &domain.Sale{UserID: userID, Total: total, PaymentMethod: paymentMethod}
		if err := sales.CreateSale(ctx, sale); err != nil {
			return Internal(err)
		}

		view = &SaleView{
			ID:            sale.ID,
			Username:      user.Username,
			Total:         total,
			PaymentMethod: paymentMethod,
			CreatedAt:     sale.CreatedAt,
			Details:       make([]SaleDetailView, 0, len(lines)),
		}

		for i := range lines {
			line := &lines[i]
			product := &line.Product
			if product.Stock < line.Quantity {
				return InsufficientStock(product.Name)
			}
			detail := &domain.SaleDetail{
				SaleID:    sale.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			}
			if err := sales.CreateDetail(ctx, detail); err != nil {
				return Internal(err)
			}
			product.Stock -= line.Quantity
			if err := tx.Model(&domain.Product{}).Where("id = ?", product.ID).
				Update("stock", product.Stock).Error; err != nil {
				return Internal(err)
			}
			view.Details = append(view.Details, SaleDetailView{
				Product:   product.Name,
				Quantity:  line.Quantity,
				UnitPrice: detail.UnitPrice,
				Subtotal:  detail.Subtotal(),
			})
		}

		return carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, user, view)
	s.log.Info("sale recorded",
		zap.Uint("sale_id", view.ID),
		zap.String("user", view.Username),
		zap.String("total", view.Total.String()),
	)
	return view, nil
}

// notify is fire-and-forget: the sale is already committed, so delivery
// problems are logged, never surfaced to the purchase.
func (s *Checkout) notify(ctx context.Context, user *domain.User, sale *SaleView) {
	s.enqueue(notify.Message{
		To:      []string{user.Email},
		Subject: "Factura de tu compra",
		Body:    receiptBody(user.Username, sale),
	})

	admins, err := repo.NewUserRepo(s.db).AdminEmails(ctx)
	if err != nil || len(admins) == 0 {
		admins = []string{s.cfg.Mail.AdminAddr}
	}
	s.enqueue(notify.Message{
		To:      admins,
		Subject: fmt.Sprintf("Nueva venta #%d", sale.ID),
		Body: fmt.Sprintf("Venta #%d registrada por %s.\nTotal: $%s\nMétodo de pago: %s",
			sale.ID, sale.Username, sale.Total.StringFixed(2), sale.PaymentMethod),
	})

	products, err := repo.NewCatalogRepo(s.db).ListProducts(ctx)
	if err != nil {
		s.log.Error("stock report load failed", zap.Error(err))
		return
	}
	s.enqueue(notify.Message{
		To:      []string{s.cfg.Mail.AdminAddr},
		Subject: "Reporte de inventario",
		Body:    StockReport(products),
	})
}

func (s *Checkout) enqueue(m notify.Message) {
	if err := s.outbox.Enqueue(m); err != nil {
		s.log.Error("notification enqueue failed", zap.String("subject", m.Subject), zap.Error(err))
	}
}

func receiptBody(username string, sale *SaleView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s, gracias por tu compra.\n\n", username)
	fmt.Fprintf(&b, "Total: $%s\n", sale.Total.StringFixed(2))
	fmt.Fprintf(&b, "Método de pago: %s\n\nDetalles:\n", sale.PaymentMethod)
	for _, d := range sale.Details {
		fmt.Fprintf(&b, "- %s x%d = $%s\n", d.Product, d.Quantity, d.Subtotal.StringFixed(2))
	}
	return b.String()
}
