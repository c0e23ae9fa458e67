// handlers_upload.go - Health log file import handlers
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/labstack/echo/v4"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	importer      Importer
	maxUploadSize int64
}

// NewUploadHandler creates a new upload handler instance. maxUploadSize of
// zero disables the size check.
func NewUploadHandler(importer Importer, maxUploadSize int64) *UploadHandlerImpl {
	return &UploadHandlerImpl{
		importer:      importer,
		maxUploadSize: maxUploadSize,
	}
}

type uploadResponse struct {
	Message string `json:"message"`
	// Count is rows applied (inserted plus updated). Two rows for the same
	// date in one upsert file count twice but leave one stored entry.
	Count    int    `json:"count"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Coerced  int    `json:"coerced"`
	JobID    string `json:"jobId"`
	Parser   string `json:"parser"`
}

// HandleUpload imports a multipart "file" into the health log.
// Query: format (force a parser), onDuplicate (upsert|append|skip), replace.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		return NewBadRequestError(fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadSize), nil)
	}

	opts, apiErr := parseImportOptions(c)
	if apiErr != nil {
		return apiErr
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	job, err := h.importer.Import(c.Request().Context(), file.Filename, data, opts)
	if err != nil {
		return NewInternalError("failed to upload health data", err)
	}

	count := job.Inserted + job.Updated
	return c.JSON(http.StatusOK, uploadResponse{
		Message:  fmt.Sprintf("Successfully uploaded %d health entries", count),
		Count:    count,
		Inserted: job.Inserted,
		Updated:  job.Updated,
		Skipped:  job.Skipped,
		Coerced:  job.Coerced,
		JobID:    job.ID,
		Parser:   job.Parser,
	})
}

func parseImportOptions(c echo.Context) (upload.Options, *APIError) {
	opts := upload.Options{Format: c.QueryParam("format")}

	policy, err := models.ParseDuplicatePolicy(c.QueryParam("onDuplicate"), "")
	if err != nil {
		return opts, NewBadRequestError("invalid onDuplicate", err)
	}
	opts.Policy = policy

	if v := c.QueryParam("replace"); v != "" {
		replace, err := strconv.ParseBool(v)
		if err != nil {
			return opts, NewValidationError("replace")
		}
		opts.Replace = replace
	}
	return opts, nil
}

// HandleListImports returns recent import jobs, newest first
func (h *UploadHandlerImpl) HandleListImports(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return NewValidationError("limit")
		}
		limit = n
	}
	return c.JSON(http.StatusOK, h.importer.RecentJobs(limit))
}

// HandleGetImport returns one import job
func (h *UploadHandlerImpl) HandleGetImport(c echo.Context) error {
	id := c.Param("id")
	job, ok := h.importer.GetJob(id)
	if !ok {
		return NewNotFoundError("import job", id)
	}
	return c.JSON(http.StatusOK, job)
}
