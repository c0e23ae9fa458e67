package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amimagid/ami-super-app/internal/api"
	"github.com/amimagid/ami-super-app/internal/config"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/report"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/amimagid/ami-super-app/internal/web"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p := a.v.GetInt("port"); p > 0 {
				a.cfg.Server.Port = p
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "listen port (overrides config)")
	cobra.CheckErr(a.v.BindPFlag("port", cmd.Flags().Lookup("port")))
	return cmd
}

// newImportManager wires the import pipeline shared by serve, import and
// watch.
func (a *app) newImportManager(store *storage.Store) (*upload.Manager, error) {
	var archive storage.Archive
	if a.cfg.Storage.EnableArchive {
		la, err := storage.NewLocalArchive(a.cfg.GetUploadDir())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
		archive = la
	}

	policy, err := models.ParseDuplicatePolicy(a.cfg.Import.DuplicatePolicy, models.DuplicateUpsert)
	if err != nil {
		return nil, fmt.Errorf("config Import.DuplicatePolicy: %w", err)
	}
	mgr := upload.NewManager(store, archive, nil, a.log)
	mgr.SetDefaultPolicy(policy)
	return mgr, nil
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	log := a.log

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr, err := a.newImportManager(store)
	if err != nil {
		return err
	}
	if cfg.Import.CleanupIntervalMinutes > 0 {
		mgr.StartCleanup(ctx,
			time.Duration(cfg.Import.CleanupIntervalMinutes)*time.Minute,
			time.Duration(cfg.Import.JobRetentionMinutes)*time.Minute)
	}

	hub := api.NewHub(log, int64(cfg.Advanced.WebSocketMaxMessageSize)*1024)
	defer hub.Close()
	mgr.SetNotifier(hub)

	var mailer report.Mailer
	if cfg.MailEnabled() {
		mailer = report.NewSMTPMailer(cfg.Mail)
	} else {
		log.Info("mail not configured, export-email disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupMiddleware(e, cfg, log)
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Store:            store,
		Importer:         mgr,
		Hub:              hub,
		Mailer:           mailer,
		DefaultRecipient: cfg.Mail.DefaultRecipient,
		MaxUploadSize:    cfg.MaxUploadBytes(),
		Version:          a.version,
		Log:              log,
	}))

	embeddedMode := web.HasEmbeddedFiles()
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", zap.Error(err))
			embeddedMode = false
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Println(a.banner(cfg, store.Driver(), mailer != nil, embeddedMode))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Close()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (a *app) banner(cfg *config.AppConfig, driver string, mail, embedded bool) string {
	mode := "API only"
	if embedded {
		mode = "Embedded frontend"
	}
	mailState := "disabled"
	if mail {
		mailState = cfg.Mail.Host
	}
	return box("Super App Server",
		field{"Version", a.version},
		field{"Build Time", a.buildTime},
		field{"Mode", mode},
		field{"Config", a.v.GetString("config")},
		field{"Listen", "http://" + cfg.GetServerAddr()},
		field{"Database", driver},
		field{"Data Dir", cfg.GetDataDir()},
		field{"Mail", mailState},
	)
}
