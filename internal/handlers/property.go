package handlers

import (
	"net/http"
	"strconv"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/scheduler"
	"real-estate-crm/internal/search"
	"real-estate-crm/internal/services"
	"real-estate-crm/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entityProperties = "properties"

// PropertyHandler handles property-related requests.
type PropertyHandler struct {
	db         *gorm.DB
	properties *services.PropertyService
	cache      *cache.Store
	search     *search.SearchClient
	storage    *storage.Service
	logger     *zap.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(db *gorm.DB, store *cache.Store, sc *search.SearchClient, st *storage.Service, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		db:         db,
		properties: services.NewPropertyService(db),
		cache:      store,
		search:     sc,
		storage:    st,
		logger:     logger,
	}
}

// List returns a filtered, paginated page of properties.
func (h *PropertyHandler) List(c *gin.Context) {
	filters := services.PropertyFilters{
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		City:    c.Query("city"),
		AgentID: c.Query("agent_id"),
		SortBy:  c.Query("sort_by"),
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &p
		}
	}
	if v := c.Query("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.MinBedrooms = &n
		}
	}

	key := cache.ListKey(entityProperties, "paginated",
		filters.Status, filters.Type, filters.City, filters.AgentID, filters.SortBy,
		c.Query("min_price"), c.Query("max_price"), c.Query("min_bedrooms"),
		strconv.Itoa(filters.Limit), strconv.Itoa(filters.Offset))
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	page, err := h.properties.ListPaginated(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.SetList(key, page)
	c.JSON(http.StatusOK, page)
}

// Get returns a single property by id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id := c.Param("id")

	key := cache.DetailKey(entityProperties, id)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	property, err := h.properties.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	h.cache.SetDetail(key, property)
	c.JSON(http.StatusOK, property)
}

// Create stores a new property and indexes it for search.
func (h *PropertyHandler) Create(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.properties.Create(&property, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityProperties, created.ID)
	h.indexOrEnqueue(created)

	c.JSON(http.StatusCreated, created)
}

// Update shallow-merges the request body into the stored property.
func (h *PropertyHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.properties.Update(id, patch, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	h.cache.InvalidateWrite(entityProperties, id)
	h.indexOrEnqueue(updated)

	c.JSON(http.StatusOK, updated)
}

// Delete removes the property and drops it from the search index.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.properties.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityProperties, id)
	if err := h.search.RemoveProperty(id); err != nil {
		h.logger.Warn("search delete failed, queueing retry",
			zap.String("property_id", id), zap.Error(err))
		if qerr := scheduler.Enqueue(h.db, id, models.IndexOpDelete); qerr != nil {
			h.logger.Error("failed to enqueue index delete", zap.Error(qerr))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// Search performs full-text search over the property index.
func (h *PropertyHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	properties, err := h.search.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// AdvancedSearch performs full-text search with filters, sorting and
// facets.
func (h *PropertyHandler) AdvancedSearch(c *gin.Context) {
	var req struct {
		Query  string   `json:"query"`
		Limit  int64    `json:"limit"`
		Offset int64    `json:"offset"`
		Filter []string `json:"filter"`
		Sort   []string `json:"sort"`
		Facets []string `json:"facets"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.search.AdvancedSearch(search.SearchRequest{
		Query:        req.Query,
		Limit:        req.Limit,
		Offset:       req.Offset,
		Filter:       req.Filter,
		Sort:         req.Sort,
		FacetsFilter: req.Facets,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties":         result.Hits,
		"total_hits":         result.TotalHits,
		"facets":             result.Facets,
		"processing_time_ms": result.ProcessingTime,
	})
}

// Facets returns facet distributions for the filterable attributes.
func (h *PropertyHandler) Facets(c *gin.Context) {
	facets, err := h.search.GetFacets([]string{"type", "status", "city", "bedrooms"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"facets": facets})
}

// Reindex rebuilds the whole search index from the database. Admin only.
func (h *PropertyHandler) Reindex(c *gin.Context) {
	var properties []models.Property
	if err := h.db.Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.search.IndexProperties(properties); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Flush()
	c.JSON(http.StatusOK, gin.H{
		"message": "reindex completed",
		"count":   len(properties),
	})
}

// UploadPhoto stores a photo in object storage and appends its URL to
// the property's photo list.
func (h *PropertyHandler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")

	property, err := h.properties.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	key := storage.ObjectKey(storage.PrefixProperties, id, fileHeader.Filename)
	url, err := h.storage.Upload(c.Request.Context(), key, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.appendPhoto(c, id, url)
}

// appendPhoto merges the uploaded photo URL into the property record and
// writes the response. The property can be deleted between the existence
// check and this write; that surfaces as a 404 and the stored object is
// orphaned.
func (h *PropertyHandler) appendPhoto(c *gin.Context, id, url string) {
	updated, err := h.properties.AppendPhoto(id, url, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	h.cache.InvalidateWrite(entityProperties, id)
	h.indexOrEnqueue(updated)

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"property": updated,
	})
}

// indexOrEnqueue writes the property to the search index, falling back
// to the retry queue on failure. The API write has already succeeded by
// the time this runs, so an index failure never fails the request.
func (h *PropertyHandler) indexOrEnqueue(property *models.Property) {
	if err := h.search.IndexProperty(property); err != nil {
		h.logger.Warn("search index failed, queueing retry",
			zap.String("property_id", property.ID), zap.Error(err))
		if qerr := scheduler.Enqueue(h.db, property.ID, models.IndexOpIndex); qerr != nil {
			h.logger.Error("failed to enqueue index write", zap.Error(qerr))
		}
	}
}
