package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
)

// AuthHandler processes registration, login and staff account creation.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password, req.Name)
	if err != nil {
		if domainErrors.KindOf(err) == domainErrors.KindUnauthorized {
			writeError(c, fieldError("login", "login and password are required"))
			return
		}
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// CreateStaff handles POST /api/admin/accounts.
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	caller := CurrentIdentity(c)
	if caller == nil {
		writeError(c, domainErrors.ErrInvalidCredentials)
		return
	}

	var req dto.StaffAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	account, err := h.facade.CreateStaff(c.Request.Context(), *caller, req.Login, req.Password, req.Name, model.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AccountResponse{
		ID:    account.ID,
		Login: account.Login,
		Name:  account.Name,
		Role:  string(account.Role),
	})
}
