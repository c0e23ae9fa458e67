// interfaces.go - Handler and dependency interfaces
package api

import (
	"context"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/labstack/echo/v4"
)

// StatusHandler answers liveness probes
type StatusHandler interface {
	HandleStatus(c echo.Context) error
}

// HealthLogHandler handles health entry CRUD, summaries and charts
type HealthLogHandler interface {
	HandleListEntries(c echo.Context) error
	HandleListEntriesMsgpack(c echo.Context) error
	HandleGetEntry(c echo.Context) error
	HandleCreateEntry(c echo.Context) error
	HandleUpdateEntry(c echo.Context) error
	HandleDeleteEntry(c echo.Context) error
	HandleSummary(c echo.Context) error
	HandleBPChart(c echo.Context) error
	HandleWeightChart(c echo.Context) error
}

// UploadHandler handles health log file imports
type UploadHandler interface {
	HandleUpload(c echo.Context) error
	HandleListImports(c echo.Context) error
	HandleGetImport(c echo.Context) error
}

// ExportHandler handles spreadsheet export and the report email
type ExportHandler interface {
	HandleExportXLSX(c echo.Context) error
	HandleExportEmail(c echo.Context) error
}

// TaskHandler handles the weekly task lists
type TaskHandler interface {
	HandleListTasks(c echo.Context) error
	HandleCreateTask(c echo.Context) error
	HandleUpdateTask(c echo.Context) error
	HandleDeleteTask(c echo.Context) error
}

// WorkHandler handles domains, team members and weekly statuses
type WorkHandler interface {
	HandleListWork(c echo.Context) error
	HandleCreateWork(c echo.Context) error
	HandleUpdateWork(c echo.Context) error
	HandleDeleteMember(c echo.Context) error
	HandleQuarter(c echo.Context) error
}

// DashboardHandler serves the home dashboard
type DashboardHandler interface {
	HandleDashboard(c echo.Context) error
}

// HealthStore is the storage needed by health log handlers
type HealthStore interface {
	ListHealthEntries(ctx context.Context, f storage.HealthFilter) ([]models.HealthEntry, error)
	GetHealthEntry(ctx context.Context, id string) (*models.HealthEntry, error)
	CreateHealthEntry(ctx context.Context, e *models.HealthEntry) error
	UpdateHealthEntry(ctx context.Context, id string, patch *models.HealthEntryPatch) (*models.HealthEntry, error)
	DeleteHealthEntry(ctx context.Context, id string) error
}

// TaskStore is the storage needed by task handlers
type TaskStore interface {
	ListTasks(ctx context.Context, weekStart string, taskType models.TaskType) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, id string, patch *models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// WorkStore is the storage needed by work status handlers
type WorkStore interface {
	ListDomains(ctx context.Context, weekStart string) ([]models.WorkDomain, error)
	CreateDomain(ctx context.Context, d *models.WorkDomain) error
	CreateMember(ctx context.Context, m *models.TeamMember) error
	UpdateMember(ctx context.Context, id string, patch *models.MemberPatch) (*models.TeamMember, error)
	DeleteMember(ctx context.Context, id string) error
	SaveWeeklyStatus(ctx context.Context, memberID, weekStart string, patch *models.StatusPatch) (*models.WeeklyStatus, error)
	ListStatusesBetween(ctx context.Context, from, to string) ([]models.WeeklyStatus, error)
}

// Store is everything the API reads and writes. *storage.Store satisfies it.
type Store interface {
	HealthStore
	TaskStore
	WorkStore
	Ping(ctx context.Context) error
}

// Importer runs file imports. *upload.Manager satisfies it.
type Importer interface {
	Import(ctx context.Context, fileName string, data []byte, opts upload.Options) (*models.ImportJob, error)
	GetJob(id string) (*models.ImportJob, bool)
	RecentJobs(limit int) []models.ImportJob
}

// Notifier broadcasts data-change events. *Hub satisfies it.
type Notifier interface {
	Publish(eventType string, payload any)
}

var (
	_ Store    = (*storage.Store)(nil)
	_ Importer = (*upload.Manager)(nil)
	_ Notifier = (*Hub)(nil)
)
