package handlers

import (
	"net/http"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const entitySettings = "settings"

// SettingsHandler handles application configuration key-values.
type SettingsHandler struct {
	settings *services.SettingService
	cache    *cache.Store
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(db *gorm.DB, store *cache.Store) *SettingsHandler {
	return &SettingsHandler{
		settings: services.NewSettingService(db),
		cache:    store,
	}
}

// List returns every setting.
func (h *SettingsHandler) List(c *gin.Context) {
	key := cache.ListKey(entitySettings, "all")
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	settings, err := h.settings.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"settings": settings, "count": len(settings)}
	h.cache.SetList(key, response)
	c.JSON(http.StatusOK, response)
}

// Get returns one setting by key.
func (h *SettingsHandler) Get(c *gin.Context) {
	settingKey := c.Param("key")

	cacheKey := cache.DetailKey(entitySettings, settingKey)
	if cached, ok := h.cache.Get(cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	setting, err := h.settings.Get(settingKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if setting == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}

	h.cache.SetDetail(cacheKey, setting)
	c.JSON(http.StatusOK, setting)
}

// Put creates or replaces a setting value.
func (h *SettingsHandler) Put(c *gin.Context) {
	settingKey := c.Param("key")

	var req struct {
		Value       string `json:"value" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.settings.Set(settingKey, req.Value, req.Description, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entitySettings, settingKey)
	c.JSON(http.StatusOK, setting)
}

// Delete removes a setting.
func (h *SettingsHandler) Delete(c *gin.Context) {
	settingKey := c.Param("key")

	if err := h.settings.Delete(settingKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entitySettings, settingKey)
	c.JSON(http.StatusOK, gin.H{"message": "setting deleted"})
}
