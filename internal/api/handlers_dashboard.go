// handlers_dashboard.go - Home dashboard handler
package api

import (
	"net/http"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/insights"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// DashboardHandlerImpl implements the DashboardHandler interface
type DashboardHandlerImpl struct {
	store Store
	now   func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store Store) *DashboardHandlerImpl {
	return &DashboardHandlerImpl{store: store, now: time.Now}
}

// HandleDashboard loads health entries, work status and this week's tasks
// concurrently and aggregates them
func (h *DashboardHandlerImpl) HandleDashboard(c echo.Context) error {
	now := h.now()
	in := insights.DashboardInput{Now: now}
	taskWeek := calendar.SundayKey(now)

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		entries, err := h.store.ListHealthEntries(ctx, storage.HealthFilter{})
		in.Entries = entries
		return err
	})
	g.Go(func() error {
		domains, err := h.store.ListDomains(ctx, calendar.MondayKey(now))
		in.Domains = domains
		return err
	})
	g.Go(func() error {
		tasks, err := h.store.ListTasks(ctx, taskWeek, models.TaskTypeWork)
		in.WorkTasks = tasks
		return err
	})
	g.Go(func() error {
		tasks, err := h.store.ListTasks(ctx, taskWeek, models.TaskTypePrivate)
		in.PrivateTasks = tasks
		return err
	})
	if err := g.Wait(); err != nil {
		return NewInternalError("failed to load dashboard", err)
	}

	return c.JSON(http.StatusOK, insights.BuildDashboard(in))
}
