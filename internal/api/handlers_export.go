// handlers_export.go - Spreadsheet export and report email handlers
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/report"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	store            HealthStore
	mailer           report.Mailer
	defaultRecipient string
	log              *zap.Logger
	now              func() time.Time
}

// NewExportHandler creates a new export handler. A nil mailer disables the
// email endpoint.
func NewExportHandler(store HealthStore, mailer report.Mailer, defaultRecipient string, log *zap.Logger) *ExportHandlerImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportHandlerImpl{
		store:            store,
		mailer:           mailer,
		defaultRecipient: defaultRecipient,
		log:              log.Named("export"),
		now:              time.Now,
	}
}

// HandleExportXLSX returns the health log as a workbook
func (h *ExportHandlerImpl) HandleExportXLSX(c echo.Context) error {
	entries, err := h.store.ListHealthEntries(c.Request().Context(), storage.HealthFilter{
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	})
	if err != nil {
		return NewInternalError("failed to fetch health entries", err)
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, entries); err != nil {
		return NewInternalError("failed to build workbook", err)
	}

	name := fmt.Sprintf("health-log-%s.xlsx", h.now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

type exportEmailRequest struct {
	PDFDataURL string `json:"pdfDataUrl"`
	To         string `json:"to"`
}

// HandleExportEmail mails the report with the client's PDF and a fresh
// workbook attached
func (h *ExportHandlerImpl) HandleExportEmail(c echo.Context) error {
	if h.mailer == nil {
		return NewServiceUnavailableError("email is not configured")
	}

	var req exportEmailRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	to := h.defaultRecipient
	if strings.TrimSpace(req.To) != "" {
		to = strings.TrimSpace(req.To)
	}
	if to == "" {
		return NewValidationError("to")
	}

	var pdf []byte
	if req.PDFDataURL != "" {
		var err error
		if pdf, err = report.DecodeDataURL(req.PDFDataURL); err != nil {
			return NewBadRequestError("invalid pdfDataUrl", err)
		}
	}

	ctx := c.Request().Context()
	entries, err := h.store.ListHealthEntries(ctx, storage.HealthFilter{})
	if err != nil {
		return NewInternalError("failed to fetch health entries", err)
	}

	msg, err := report.ReportEmail(entries, pdf, []string{to}, h.now())
	if err != nil {
		return NewInternalError("failed to build report", err)
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		return NewInternalError("failed to send email", err)
	}

	h.log.Info("report emailed", zap.String("to", to), zap.Int("entries", len(entries)))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email sent successfully",
	})
}
