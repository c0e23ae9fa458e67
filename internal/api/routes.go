// routes.go - Route registration helpers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/config"
	"github.com/amimagid/ami-super-app/internal/logging"
	"github.com/amimagid/ami-super-app/internal/report"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store            Store
	Importer         Importer
	Hub              *Hub
	Mailer           report.Mailer // nil disables export-email
	DefaultRecipient string
	MaxUploadSize    int64
	Version          string
	Log              *zap.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Status    StatusHandler
	HealthLog HealthLogHandler
	Upload    UploadHandler
	Export    ExportHandler
	Tasks     TaskHandler
	Work      WorkHandler
	Dashboard DashboardHandler
	Hub       *Hub
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	var notifier Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}
	return &Handlers{
		Status:    NewStatusHandler(deps.Version, deps.Store),
		HealthLog: NewHealthLogHandler(deps.Store, notifier),
		Upload:    NewUploadHandler(deps.Importer, deps.MaxUploadSize),
		Export:    NewExportHandler(deps.Store, deps.Mailer, deps.DefaultRecipient, deps.Log),
		Tasks:     NewTaskHandler(deps.Store, notifier),
		Work:      NewWorkHandler(deps.Store, notifier),
		Dashboard: NewDashboardHandler(deps.Store),
		Hub:       deps.Hub,
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Liveness
	e.GET("/health", handlers.Status.HandleStatus)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Status.HandleStatus)

	// Health log
	healthGroup := apiGroup.Group("/health-log")
	healthGroup.GET("", handlers.HealthLog.HandleListEntries)
	healthGroup.POST("", handlers.HealthLog.HandleCreateEntry)
	healthGroup.GET("/msgpack", handlers.HealthLog.HandleListEntriesMsgpack)
	healthGroup.GET("/summary", handlers.HealthLog.HandleSummary)
	healthGroup.GET("/charts/bp", handlers.HealthLog.HandleBPChart)
	healthGroup.GET("/charts/weight", handlers.HealthLog.HandleWeightChart)
	healthGroup.POST("/upload", handlers.Upload.HandleUpload)
	healthGroup.GET("/imports", handlers.Upload.HandleListImports)
	healthGroup.GET("/imports/:id", handlers.Upload.HandleGetImport)
	healthGroup.GET("/export.xlsx", handlers.Export.HandleExportXLSX)
	healthGroup.POST("/export-email", handlers.Export.HandleExportEmail)
	healthGroup.GET("/:id", handlers.HealthLog.HandleGetEntry)
	healthGroup.PUT("/:id", handlers.HealthLog.HandleUpdateEntry)
	healthGroup.DELETE("/:id", handlers.HealthLog.HandleDeleteEntry)

	// Tasks
	taskGroup := apiGroup.Group("/my-tasks")
	taskGroup.GET("", handlers.Tasks.HandleListTasks)
	taskGroup.POST("", handlers.Tasks.HandleCreateTask)
	taskGroup.PUT("/:id", handlers.Tasks.HandleUpdateTask)
	taskGroup.DELETE("/:id", handlers.Tasks.HandleDeleteTask)

	// Work status
	workGroup := apiGroup.Group("/work-status")
	workGroup.GET("", handlers.Work.HandleListWork)
	workGroup.POST("", handlers.Work.HandleCreateWork)
	workGroup.PUT("", handlers.Work.HandleUpdateWork)
	workGroup.DELETE("", handlers.Work.HandleDeleteMember)
	workGroup.GET("/quarter", handlers.Work.HandleQuarter)

	apiGroup.GET("/dashboard", handlers.Dashboard.HandleDashboard)

	RegisterWebSocketRoutes(e, handlers)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	if handlers.Hub != nil {
		e.GET("/api/ws/events", handlers.Hub.HandleWebSocket)
	}
}

// SetupMiddleware configures common middleware from the server config
func SetupMiddleware(e *echo.Echo, cfg *config.AppConfig, log *zap.Logger) {
	e.HTTPErrorHandler = ErrorHandler(strings.EqualFold(cfg.Advanced.LogLevel, "debug"))

	e.Use(middleware.RequestID())
	if cfg.Advanced.EnableRequestLogging {
		e.Use(logging.RequestLogger(log))
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	if cfg.Server.ReadTimeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return strings.HasPrefix(path, "/api/ws/") ||
					strings.HasSuffix(path, "/upload") ||
					strings.HasSuffix(path, "/export-email")
			},
			ErrorMessage: "Request timeout",
		}))
	}

	if cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
