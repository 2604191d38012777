package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/approvals")
	{
		approvals.GET("", middleware.RequireAuth(), h.ListPending)
		approvals.POST("", middleware.RequireAuth(), h.Decide)
	}
}

// ListPending returns the caller's pending approval queue. Approver roles
// see their own-role level-1 items; the chairperson additionally sees
// level-2 items whose level 1 is complete. Other roles get an empty list.
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	role := c.GetString("userRole")

	approvals, err := h.approvalService.ListPending(c.Request.Context(), role)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, approvals, map[string]interface{}{
		"userRole": role,
	}))
}

// Decide resolves one pending approval with APPROVE or REJECT
func (h *ApprovalHandler) Decide(c *gin.Context) {
	var req service.DecideApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	role := c.GetString("userRole")

	message, err := h.approvalService.Decide(c.Request.Context(), userID, role, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": message}))
}
