package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService service.PatientService
}

func NewPatientHandler(patientService service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) RegisterRoutes(router *gin.RouterGroup) {
	patients := router.Group("/api/patients")
	{
		patients.GET("", middleware.RequireAuth(), h.List)
		patients.POST("", middleware.RequireAuth(), h.Create)
	}
}

// Create registers a patient and issues a PAT code
func (h *PatientHandler) Create(c *gin.Context) {
	var req service.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	patient, err := h.patientService.Create(c.Request.Context(), userID, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, patient))
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, patients))
}
