package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tienda-api/internal/service"
	"tienda-api/internal/transport/http/middleware"
	"tienda-api/internal/transport/http/response"
)

type AccountsHandler struct {
	svc   *service.Accounts
	debug bool // echo OTP codes in responses (dev only)
}

func NewAccountsHandler(svc *service.Accounts, debug bool) *AccountsHandler {
	return &AccountsHandler{svc: svc, debug: debug}
}

type registerIn struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountsHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	code, err := h.svc.Register(c.Request.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	body := gin.H{"detail": "Usuario creado. Código enviado al correo."}
	if h.debug {
		body["codigo"] = code
	}
	c.JSON(http.StatusCreated, body)
}

type verifyIn struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (h *AccountsHandler) VerifyRegistration(c *gin.Context) {
	var in verifyIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	tokens, err := h.svc.VerifyRegistration(c.Request.Context(), in.Email, in.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Cuenta verificada correctamente.", "tokens": tokens})
}

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountsHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	// Tokens are never issued here; the login code must be verified first.
	if _, err := h.svc.Login(c.Request.Context(), in.Email, in.Password); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Código de inicio de sesión enviado al correo."})
}

func (h *AccountsHandler) VerifyLogin(c *gin.Context) {
	var in verifyIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	tokens, err := h.svc.VerifyLogin(c.Request.Context(), in.Email, in.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Inicio de sesión exitoso.", "tokens": tokens})
}

type resendIn struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AccountsHandler) ResendCode(c *gin.Context) {
	var in resendIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	code, err := h.svc.ResendCode(c.Request.Context(), in.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	body := gin.H{"detail": "Código reenviado al correo."}
	if h.debug {
		body["codigo"] = code
	}
	response.OK(c, body)
}

func (h *AccountsHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *AccountsHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Identificador inválido.")
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), uint(id)); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": "Usuario eliminado correctamente."})
}

func (h *AccountsHandler) DeleteAccount(c *gin.Context) {
	var targetID uint
	if raw := c.Query("user_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Detail(c, http.StatusBadRequest, "Identificador inválido.")
			return
		}
		targetID = uint(v)
	}
	detail, err := h.svc.DeleteAccount(c.Request.Context(), middleware.UserID(c), middleware.IsAdmin(c), targetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"detail": detail})
}
