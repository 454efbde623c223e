package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-api/internal/service"
)

// Every error answer is a JSON body with a human-readable detail plus the
// real HTTP status; nothing is retried internally.

func Detail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// FromError maps a service error to its status; unknown errors become an
// opaque 500.
func FromError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		c.JSON(se.Status, gin.H{"detail": se.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno."})
}
