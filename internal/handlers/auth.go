package handlers

import (
	"net/http"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler handles login and session introspection.
type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *gorm.DB, tm *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  services.NewUserService(db),
		tokens: tm,
		logger: logger,
	}
}

// Login verifies the credentials and issues a signed session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		h.logger.Error("authentication lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil {
		// Unknown email, wrong password and disabled account are
		// indistinguishable to the caller.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.users.GetByID(claims.UserID())
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
