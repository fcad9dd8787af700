package handlers

import (
	"net/http"
	"strconv"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const entityClients = "clients"

// ClientHandler handles client-related requests.
type ClientHandler struct {
	clients *services.ClientService
	cache   *cache.Store
}

// NewClientHandler creates a new client handler.
func NewClientHandler(db *gorm.DB, store *cache.Store) *ClientHandler {
	return &ClientHandler{
		clients: services.NewClientService(db),
		cache:   store,
	}
}

// List returns clients, optionally filtered by status, agent or source.
func (h *ClientHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")
	agentID := c.Query("agent_id")
	source := c.Query("source")

	key := cache.ListKey(entityClients, "list", status, agentID, source, strconv.Itoa(limit))
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var clients []models.Client
	var err error
	switch {
	case status != "":
		clients, err = h.clients.GetByStatus(models.ClientStatus(status), limit)
	case agentID != "":
		clients, err = h.clients.GetByAgent(agentID, limit)
	case source != "":
		clients, err = h.clients.GetBySource(source, limit)
	default:
		clients, err = h.clients.GetAll(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"clients": clients, "count": len(clients)}
	h.cache.SetList(key, response)
	c.JSON(http.StatusOK, response)
}

// Get returns a single client by id.
func (h *ClientHandler) Get(c *gin.Context) {
	id := c.Param("id")

	key := cache.DetailKey(entityClients, id)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	client, err := h.clients.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	h.cache.SetDetail(key, client)
	c.JSON(http.StatusOK, client)
}

// Create stores a new client. When the body carries a first visit, both
// records are written in one transaction.
func (h *ClientHandler) Create(c *gin.Context) {
	var req struct {
		models.Client
		FirstVisit *models.Visit `json:"first_visit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := auth.ActorID(c)

	if req.FirstVisit != nil {
		client, visit, err := h.clients.CreateWithVisit(&req.Client, req.FirstVisit, actorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.cache.InvalidateWrite(entityClients, client.ID)
		h.cache.InvalidateEntity(entityVisits)
		c.JSON(http.StatusCreated, gin.H{"client": client, "visit": visit})
		return
	}

	client, err := h.clients.Create(&req.Client, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityClients, client.ID)
	c.JSON(http.StatusCreated, client)
}

// Update shallow-merges the request body into the stored client.
func (h *ClientHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.clients.Update(id, patch, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	h.cache.InvalidateWrite(entityClients, id)
	c.JSON(http.StatusOK, updated)
}

// Delete removes the client.
func (h *ClientHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.clients.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityClients, id)
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}

// Search matches clients by case-sensitive name prefix.
func (h *ClientHandler) Search(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	clients, err := h.clients.SearchByName(prefix, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "count": len(clients)})
}
