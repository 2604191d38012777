package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	{
		inventory.GET("", middleware.RequireAuth(), h.List)
		inventory.GET("/stats", middleware.RequireAuth(), h.Stats)
		inventory.GET("/:id", middleware.RequireAuth(), h.Get)
		inventory.POST("", middleware.RequireRole(model.RoleBendahara, model.RoleKetua), h.Create)
		inventory.PUT("/:id", middleware.RequireRole(model.RoleBendahara, model.RoleKetua), h.Update)
	}
}

// List returns catalog items filtered by category, active flag, low stock
// and free-text search
func (h *InventoryHandler) List(c *gin.Context) {
	filter := repository.InventoryFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		LowStock: c.Query("lowStock") == "true",
	}
	if active := c.Query("isActive"); active != "" {
		isActive := active == "true"
		filter.IsActive = &isActive
	}

	items, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// Stats returns per-category stock value plus the low stock count
func (h *InventoryHandler) Stats(c *gin.Context) {
	stats, err := h.inventoryService.Stats(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Create registers a catalog item directly, outside the request workflow
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	item, err := h.inventoryService.Create(c.Request.Context(), userID, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Update edits catalog metadata; stock and cost stay settlement-owned
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
