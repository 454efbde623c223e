package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tienda-api/internal/service"
	"tienda-api/internal/transport/http/response"
)

type CatalogHandler struct {
	svc *service.Catalog
}

func NewCatalogHandler(svc *service.Catalog) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

type categoryIn struct {
	Name string `json:"nombre" binding:"required"`
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, cats)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in categoryIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), in.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in categoryIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), id, in.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Categoría eliminada"})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ps, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, ps)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Producto eliminado"})
}

// PublicByCategory is the only anonymous catalog endpoint.
func (h *CatalogHandler) PublicByCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.PublicByCategory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *CatalogHandler) Inventory(c *gin.Context) {
	if err := h.svc.InventoryReport(c.Request.Context()); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Reporte de inventario enviado al correo.", "status": "enviado"})
}
