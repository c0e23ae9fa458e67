// handlers_status.go - Liveness handler
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusHandlerImpl implements the StatusHandler interface
type StatusHandlerImpl struct {
	version string
	db      Pinger
}

// NewStatusHandler creates a new status handler. db may be nil.
func NewStatusHandler(version string, db Pinger) StatusHandler {
	return &StatusHandlerImpl{
		version: version,
		db:      db,
	}
}

// HandleStatus returns server status and whether the database answers
func (h *StatusHandlerImpl) HandleStatus(c echo.Context) error {
	database := "ok"
	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	return c.JSON(status, map[string]interface{}{
		"status":   http.StatusText(status),
		"version":  h.version,
		"database": database,
	})
}
