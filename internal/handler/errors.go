package handler

import (
	"errors"
	"net/http"

	"yayasan-backend/internal/service"
)

// statusFor maps service sentinel errors onto HTTP statuses. Anything
// unclassified is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrLevelIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
