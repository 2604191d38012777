package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/pagination"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs")
	{
		audit.GET("", middleware.RequireRole(model.RoleKetua, model.RoleSekretaris), h.List)
	}
}

// List returns audit entries, newest first, paginated
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.AuditFilter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resourceType"),
		Severity:     c.Query("severity"),
		UserID:       c.Query("userId"),
		Search:       c.Query("search"),
	}

	logs, total, err := h.auditService.List(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, logs, map[string]interface{}{
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
