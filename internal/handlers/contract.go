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

const entityContracts = "contracts"

// ContractHandler handles contract-related requests.
type ContractHandler struct {
	contracts *services.ContractService
	cache     *cache.Store
}

// NewContractHandler creates a new contract handler.
func NewContractHandler(db *gorm.DB, store *cache.Store) *ContractHandler {
	return &ContractHandler{
		contracts: services.NewContractService(db),
		cache:     store,
	}
}

// List returns contracts, optionally filtered by status, agent, client
// or property.
func (h *ContractHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")
	agentID := c.Query("agent_id")
	clientID := c.Query("client_id")
	propertyID := c.Query("property_id")

	key := cache.ListKey(entityContracts, "list",
		status, agentID, clientID, propertyID, strconv.Itoa(limit))
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var contracts []models.Contract
	var err error
	switch {
	case status != "":
		contracts, err = h.contracts.GetByStatus(models.ContractStatus(status), limit)
	case agentID != "":
		contracts, err = h.contracts.GetByAgent(agentID, limit)
	case clientID != "":
		contracts, err = h.contracts.GetByClient(clientID, limit)
	case propertyID != "":
		contracts, err = h.contracts.GetByProperty(propertyID, limit)
	default:
		contracts, err = h.contracts.GetAll(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"contracts": contracts, "count": len(contracts)}
	h.cache.SetList(key, response)
	c.JSON(http.StatusOK, response)
}

// Get returns a single contract by id.
func (h *ContractHandler) Get(c *gin.Context) {
	id := c.Param("id")

	key := cache.DetailKey(entityContracts, id)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	contract, err := h.contracts.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	h.cache.SetDetail(key, contract)
	c.JSON(http.StatusOK, contract)
}

// Create stores a new draft contract.
func (h *ContractHandler) Create(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.contracts.Create(&contract, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityContracts, created.ID)
	c.JSON(http.StatusCreated, created)
}

// Update shallow-merges the request body into the stored contract.
func (h *ContractHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.contracts.Update(id, patch, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	h.cache.InvalidateWrite(entityContracts, id)
	c.JSON(http.StatusOK, updated)
}

// Delete removes the contract.
func (h *ContractHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.contracts.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWrite(entityContracts, id)
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted"})
}

// Sign activates the contract and reserves its property atomically.
func (h *ContractHandler) Sign(c *gin.Context) {
	id := c.Param("id")

	signed, err := h.contracts.Sign(id, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if signed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	h.cache.InvalidateWrite(entityContracts, id)
	h.cache.InvalidateWrite(entityProperties, signed.PropertyID)
	c.JSON(http.StatusOK, signed)
}

// Close completes the contract and moves its property to sold or rented
// atomically.
func (h *ContractHandler) Close(c *gin.Context) {
	id := c.Param("id")

	closed, err := h.contracts.Close(id, auth.ActorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if closed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	h.cache.InvalidateWrite(entityContracts, id)
	h.cache.InvalidateWrite(entityProperties, closed.PropertyID)
	c.JSON(http.StatusOK, closed)
}
