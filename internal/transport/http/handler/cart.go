package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-api/internal/service"
	"tienda-api/internal/transport/http/middleware"
	"tienda-api/internal/transport/http/response"
)

type CartHandler struct {
	cart     *service.Cart
	checkout *service.Checkout
}

func NewCartHandler(cart *service.Cart, checkout *service.Checkout) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout}
}

func (h *CartHandler) View(c *gin.Context) {
	view, err := h.cart.View(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, view)
}

type addItemIn struct {
	ProductID uint `json:"producto_id" binding:"required"`
	Quantity  int  `json:"cantidad" binding:"required,min=1"`
}

func (h *CartHandler) AddOrUpdate(c *gin.Context) {
	var in addItemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.cart.AddOrUpdate(c.Request.Context(), middleware.UserID(c), in.ProductID, in.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Producto agregado o actualizado correctamente.", "carrito": view})
}

type removeItemIn struct {
	ProductID uint `json:"producto_id" binding:"required"`
}

func (h *CartHandler) Remove(c *gin.Context) {
	var in removeItemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.cart.Remove(c.Request.Context(), middleware.UserID(c), in.ProductID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Producto eliminado del carrito."})
}

type checkoutIn struct {
	PaymentMethod string `json:"metodo_pago"`
}

func (h *CartHandler) Checkout(c *gin.Context) {
	var in checkoutIn
	if err := c.ShouldBindJSON(&in); err != nil && err.Error() != "EOF" {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.checkout.Finalize(c.Request.Context(), middleware.UserID(c), in.PaymentMethod)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Compra finalizada. Factura enviada al correo.", "venta": sale})
}
