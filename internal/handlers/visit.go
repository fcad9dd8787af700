package handlers

import (
	"net/http"
	"strconv"
	"time"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const entityVisits = "visits"

// VisitHandler handles visit-related requests.
type VisitHandler struct {
	visits *services.VisitService
	cache  *cache.Store
}

// NewVisitHandler creates a new visit handler.
func NewVisitHandler(db *gorm.DB, store *cache.Store) *VisitHandler {
	return &VisitHandler{
		visits: services.NewVisitService(db),
		cache:  store,
	}
}

// List returns visits, optionally filtered by status, agent, client or
// property. Pass upcoming=true for future scheduled visits only.
func (h *VisitHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")
	agentID := c.Query("agent_id")
	clientID := c.Query("client_id")
	propertyID := c.Query("property_id")
	upcoming := c.Query("upcoming") == "true"

	key := cache.ListKey(entityVisits, "list",
		status, agentID, clientID, propertyID,
		strconv.FormatBool(upcoming), strconv.Itoa(limit))
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var visits []models.Visit
	var err error
	switch {
	case upcoming:
		visits, err = h.visits.GetUpcoming(time.Now(), limit)
	case status != "":
		visits, err = h.visits.GetByStatus(models.VisitStatus(status), limit)
	case agentID != "":
		visits, err = h.visits.GetByAgent(agentID, limit)
	case clientID != "":
		visits, err = h.visits.GetByClient(clientID, limit)
	case propertyID != "":
		visits, err = h.visits.GetByProperty(propertyID, limit)
	default:
		visits, err = h.visits.GetAll(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"visits": visits, "count": len(visits)}
	h.cache.SetList(key, response)
	c.JSON(http.StatusOK, response)
}

// Get returns a single visit by id.
func (h *VisitHandler) Get(c *gin.Context) {
	id := c.Param("id")

	key := cache.DetailKey(entityVisits, id)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	visit, err := h.visits.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if visit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
		return
	}

	h.cache.SetDetail(key, visit)
	c.JSON(http.StatusOK, visit)
}

// Create schedules a new visit.
func (h *VisitHandler) Create(c *gin.Context) {
	var visit models.Visit
	if err := c.ShouldBindJSON(&visit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.visits.Create(&visit, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityVisits, created.ID)
	c.JSON(http.StatusCreated, created)
}

// Update shallow-merges the request body into the stored visit.
func (h *VisitHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.visits.Update(id, patch, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
		return
	}

	h.cache.InvalidateWrite(entityVisits, id)
	c.JSON(http.StatusOK, updated)
}

// Delete removes the visit.
func (h *VisitHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.visits.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityVisits, id)
	c.JSON(http.StatusOK, gin.H{"message": "visit deleted"})
}
