package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.GET("", middleware.RequireAuth(), h.ListMine)
		requests.POST("", middleware.RequireAuth(), h.Create)
		requests.GET("/:id", middleware.RequireAuth(), h.Get)
	}
}

// Create submits a new request and seeds its approval chain
func (h *RequestHandler) Create(c *gin.Context) {
	var req service.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	request, err := h.requestService.Create(c.Request.Context(), userID, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListMine returns the caller's own submissions, newest first
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID := c.GetString("userID")

	requests, err := h.requestService.ListMine(c.Request.Context(), userID)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Get returns one request with its items and approval chain
func (h *RequestHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")
	role := c.GetString("userRole")

	request, err := h.requestService.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
