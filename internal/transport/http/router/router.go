package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tienda-api/internal/core/auth"
	"tienda-api/internal/domain"
	"tienda-api/internal/transport/http/handler"
	mdw "tienda-api/internal/transport/http/middleware"
)

type Handlers struct {
	Accounts *handler.AccountsHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
}

func NewEngine(l *zap.Logger, jwter *auth.JWTer, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authed := mdw.AuthJWT(jwter, "")
	adminOnly := mdw.AuthJWT(jwter, domain.RoleAdmin)

	usuarios := api.Group("/usuarios")
	{
		usuarios.POST("/register/", h.Accounts.Register)
		usuarios.POST("/verify-registration/", h.Accounts.VerifyRegistration)
		usuarios.POST("/login/", h.Accounts.Login)
		usuarios.POST("/verify-login/", h.Accounts.VerifyLogin)
		usuarios.POST("/resend-code/", h.Accounts.ResendCode)
		usuarios.DELETE("/delete-account/", authed, h.Accounts.DeleteAccount)
		usuarios.GET("/listar/", adminOnly, h.Accounts.ListUsers)
		usuarios.DELETE("/eliminar/:id/", adminOnly, h.Accounts.DeleteUser)
	}

	productos := api.Group("/productos")
	{
		admin := productos.Group("/admin", adminOnly)
		admin.GET("/categorias/", h.Catalog.ListCategories)
		admin.POST("/categorias/", h.Catalog.CreateCategory)
		admin.PUT("/categorias/:id/", h.Catalog.UpdateCategory)
		admin.DELETE("/categorias/:id/", h.Catalog.DeleteCategory)
		admin.GET("/productos/", h.Catalog.ListProducts)
		admin.POST("/productos/", h.Catalog.CreateProduct)
		admin.PUT("/productos/:id/", h.Catalog.UpdateProduct)
		admin.DELETE("/productos/:id/", h.Catalog.DeleteProduct)
		admin.GET("/inventario/", h.Catalog.Inventory)

		productos.GET("/publico/categorias/:id/productos/", h.Catalog.PublicByCategory)
	}

	carrito := api.Group("/carrito", authed)
	{
		carrito.GET("/carrito/", h.Cart.View)
		carrito.POST("/carrito/", h.Cart.AddOrUpdate)
		carrito.DELETE("/carrito/", h.Cart.Remove)
		carrito.POST("/finalizar-compra/", h.Cart.Checkout)
	}

	return r
}
