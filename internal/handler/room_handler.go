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

type RoomHandler struct {
	roomService service.RoomService
}

func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

func (h *RoomHandler) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/api/rooms")
	{
		rooms.GET("", middleware.RequireAuth(), h.List)
		rooms.GET("/stats", middleware.RequireAuth(), h.Stats)
		rooms.POST("", middleware.RequireRole(model.RoleKetua), h.Create)
	}
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, room))
}

func (h *RoomHandler) List(c *gin.Context) {
	filter := repository.RoomFilter{
		RoomType: c.Query("roomType"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
	if active := c.Query("isActive"); active != "" {
		isActive := active == "true"
		filter.IsActive = &isActive
	}

	rooms, err := h.roomService.List(c.Request.Context(), filter)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rooms))
}

func (h *RoomHandler) Stats(c *gin.Context) {
	stats, err := h.roomService.Stats(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
