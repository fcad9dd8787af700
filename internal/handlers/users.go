package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler handles account administration. All routes are gated on
// the admin role; the role check here is a second line of defence so a
// misregistered route still refuses non-admin sessions.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db *gorm.DB, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  services.NewUserService(db),
		logger: logger,
	}
}

// requireAdmin rejects non-admin sessions with 403.
func (h *UserHandler) requireAdmin(c *gin.Context) bool {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return false
	}
	if claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return false
	}
	return true
}

// List returns all accounts with their profile fields.
func (h *UserHandler) List(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	users, err := h.users.List(limit)
	if err != nil {
		h.logger.Error("user list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// Create provisions a new account with a role and a password.
func (h *UserHandler) Create(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req struct {
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        models.Role(req.Role),
	}

	created, err := h.users.Create(&user, req.Password, auth.ActorID(c))
	if errors.Is(err, services.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if err != nil {
		// The caller only sees a generic failure; the details stay in
		// the server log.
		h.logger.Error("user creation failed",
			zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update shallow-merges account and profile fields. A "password" key is
// rehashed, a "role" key validated, a "disabled" key locks the account
// out of login.
func (h *UserHandler) Update(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.users.Update(id, patch, auth.ActorID(c))
	if errors.Is(err, services.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if err != nil {
		h.logger.Error("user update failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes the account.
func (h *UserHandler) Delete(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	id := c.Param("id")

	if err := h.users.Delete(id); err != nil {
		h.logger.Error("user deletion failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
