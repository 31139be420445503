package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
)

// DomainStatus maps a domain sentinel to its HTTP status code. The second
// return is false for errors outside the domain taxonomy.
func DomainStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrSettingNotFound),
		errors.Is(err, domain.ErrFieldNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrFeedbackNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrHistoryNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrCategoryInUse),
		errors.Is(err, domain.ErrVoteCooldown),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrLoginRequired),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrAccountPending),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	}
	return 0, false
}

// mutationResult is the envelope every mutation endpoint renders: success
// plus an optional human-readable message.
type mutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// mutationError renders a failed mutation. Domain sentinels get their
// mapped status with the sentinel message; anything else is a 500 with a
// generic message (the central handler would leak nothing either).
func mutationError(c echo.Context, err error) error {
	if code, ok := DomainStatus(err); ok {
		return c.JSON(code, mutationResult{Success: false, Message: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, mutationResult{Success: false, Message: "internal error"})
}

// mutationOK renders a successful mutation.
func mutationOK(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, mutationResult{Success: true, Message: msg})
}
