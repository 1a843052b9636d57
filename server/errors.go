package server

import (
	"context"
	"net/http"

	"github.com/teranos/chartparse/errors"
)

// ErrServiceUnavailable indicates a required backend is not configured.
var ErrServiceUnavailable = errors.New("service unavailable")

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, errors.ErrBudgetExhausted):
		return http.StatusTooManyRequests
	case errors.IsAny(err, errors.ErrInvalidRequest, errors.ErrInvalidSpan):
		return http.StatusBadRequest
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return fallback
	}
}
