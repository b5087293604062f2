package handlers

import (
	"net/http"

	"artisthub/models"
	"artisthub/services/provider"
	"artisthub/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves customer registration and the two login endpoints.
type AuthHandler struct {
	Users     user.UserService
	Providers provider.ProviderService
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "User registration failed", err)
		return
	}
	getLogger(c).Info("User registered", zap.String("userId", u.ID))
	c.JSON(http.StatusCreated, u)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "User login failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ArtistLoginHandler handles POST /api/auth/artist/login.
func (h *AuthHandler) ArtistLoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Providers.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "Artist login failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
