package handler

import (
	"net/http"
	"time"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/repository"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions")
	{
		transactions.GET("", middleware.RequireAuth(), h.List)
	}
	categories := router.Group("/api/transaction-categories")
	{
		categories.GET("", middleware.RequireAuth(), h.ListCategories)
	}
}

// List returns ledger entries filtered by type, category, date range and search
func (h *TransactionHandler) List(c *gin.Context) {
	filter := repository.TransactionFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}

	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid category id"))
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("startDate"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD"))
			return
		}
		filter.StartDate = &date
	}
	if raw := c.Query("endDate"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD"))
			return
		}
		filter.EndDate = &date
	}

	transactions, err := h.transactionService.List(c.Request.Context(), filter)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transactions))
}

// ListCategories returns active transaction categories, optionally by type
func (h *TransactionHandler) ListCategories(c *gin.Context) {
	categories, err := h.transactionService.ListCategories(c.Request.Context(), c.Query("type"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}
