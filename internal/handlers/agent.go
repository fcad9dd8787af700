package handlers

import (
	"net/http"
	"strconv"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"
	"real-estate-crm/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const entityAgents = "agents"

// AgentHandler handles agent-related requests.
type AgentHandler struct {
	agents  *services.AgentService
	cache   *cache.Store
	storage *storage.Service
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(db *gorm.DB, store *cache.Store, st *storage.Service) *AgentHandler {
	return &AgentHandler{
		agents:  services.NewAgentService(db),
		cache:   store,
		storage: st,
	}
}

// List returns agents. Pass active=true to restrict to active agents.
func (h *AgentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activeOnly := c.Query("active") == "true"

	key := cache.ListKey(entityAgents, "list", strconv.FormatBool(activeOnly), strconv.Itoa(limit))
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var agents []models.Agent
	var err error
	if activeOnly {
		agents, err = h.agents.GetActive(limit)
	} else {
		agents, err = h.agents.GetAll(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"agents": agents, "count": len(agents)}
	h.cache.SetList(key, response)
	c.JSON(http.StatusOK, response)
}

// Get returns a single agent by id.
func (h *AgentHandler) Get(c *gin.Context) {
	id := c.Param("id")

	key := cache.DetailKey(entityAgents, id)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	agent, err := h.agents.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}

	h.cache.SetDetail(key, agent)
	c.JSON(http.StatusOK, agent)
}

// Create stores a new agent.
func (h *AgentHandler) Create(c *gin.Context) {
	var agent models.Agent
	if err := c.ShouldBindJSON(&agent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.agents.Create(&agent, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityAgents, created.ID)
	c.JSON(http.StatusCreated, created)
}

// Update shallow-merges the request body into the stored agent.
func (h *AgentHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.agents.Update(id, patch, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}

	h.cache.InvalidateWrite(entityAgents, id)
	c.JSON(http.StatusOK, updated)
}

// Delete removes the agent.
func (h *AgentHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.agents.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityAgents, id)
	c.JSON(http.StatusOK, gin.H{"message": "agent deleted"})
}

// Search matches agents by case-sensitive name prefix.
func (h *AgentHandler) Search(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	agents, err := h.agents.SearchByName(prefix, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents, "count": len(agents)})
}

// Stats recomputes and returns the agent's performance counters.
func (h *AgentHandler) Stats(c *gin.Context) {
	id := c.Param("id")

	agent, err := h.agents.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}

	stats, err := h.agents.RecomputeStats(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityAgents, id)
	c.JSON(http.StatusOK, stats)
}

// UploadAvatar stores an avatar image and points the agent's profile at
// its URL.
func (h *AgentHandler) UploadAvatar(c *gin.Context) {
	id := c.Param("id")

	agent, err := h.agents.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	key := storage.ObjectKey(storage.PrefixAgents, id, fileHeader.Filename)
	url, err := h.storage.Upload(c.Request.Context(), key, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.agents.Update(id, map[string]interface{}{"avatar_url": url}, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityAgents, id)
	c.JSON(http.StatusOK, gin.H{"url": url, "agent": updated})
}
