package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetpoint/backend/internal/identity"
	"vetpoint/backend/internal/service/appointments"
	"vetpoint/backend/internal/service/auth"
	"vetpoint/backend/internal/service/directory"
	"vetpoint/backend/internal/service/pets"
	"vetpoint/backend/internal/store"
)

// writeError maps service errors onto HTTP statuses. Anything unmapped
// is logged and reported as a 500 without leaking the cause.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var status int
	switch {
	case isValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrProviderDenied),
		errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, appointments.ErrForbidden),
		errors.Is(err, pets.ErrForbidden),
		errors.Is(err, directory.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appointments.ErrSlotTaken),
		errors.Is(err, appointments.ErrInvalidTransition),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrUnknownProvider):
		status = http.StatusBadRequest
	default:
		log.Error("request failed", slog.String("path", c.FullPath()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isValidation(err error) bool {
	var (
		apptErr *appointments.ValidationError
		petErr  *pets.ValidationError
		dirErr  *directory.ValidationError
		authErr *auth.ValidationError
	)
	return errors.As(err, &apptErr) || errors.As(err, &petErr) || errors.As(err, &dirErr) || errors.As(err, &authErr)
}
