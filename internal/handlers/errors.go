package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/roomgate/internal/models"
	pkghttp "github.com/BradenHooton/roomgate/pkg/http"
)

// writeServiceError maps a service error onto an HTTP error response
func writeServiceError(w http.ResponseWriter, err error) {
	var rateErr *models.RateLimitError

	switch {
	case errors.As(err, &rateErr):
		pkghttp.WriteRateLimited(w, rateErr.RetryAfter, rateErr.Error())
	case errors.Is(err, models.ErrInvalidInput):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Administrator credentials are invalid or lack permission")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrDuplicateEmail):
		pkghttp.WriteConflict(w, "Email already in use")
	case errors.Is(err, models.ErrUnavailable):
		pkghttp.WriteServiceUnavailable(w, "Service temporarily unavailable")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
