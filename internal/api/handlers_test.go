package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/amimagid/ami-super-app/internal/testutil"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.Local)

type testEnv struct {
	e        *echo.Echo
	store    *storage.Store
	notifier *testutil.MockNotifier
	mailer   *testutil.MockMailer
	archive  *testutil.MockArchive
	export   *ExportHandlerImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := testutil.NewTestStore(t)
	notifier := &testutil.MockNotifier{}
	mailer := &testutil.MockMailer{}
	archive := testutil.NewMockArchive()

	mgr := upload.NewManager(store, archive, nil, log)
	mgr.SetNotifier(notifier)

	healthLog := NewHealthLogHandler(store, notifier)
	healthLog.now = func() time.Time { return fixedNow }
	export := NewExportHandler(store, mailer, "me@example.com", log)
	export.now = func() time.Time { return fixedNow }
	work := NewWorkHandler(store, notifier)
	work.now = func() time.Time { return fixedNow }
	dashboard := NewDashboardHandler(store)
	dashboard.now = func() time.Time { return fixedNow }

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(true)
	RegisterRoutes(e, &Handlers{
		Status:    NewStatusHandler("test", store),
		HealthLog: healthLog,
		Upload:    NewUploadHandler(mgr, 1<<20),
		Export:    export,
		Tasks:     NewTaskHandler(store, notifier),
		Work:      work,
		Dashboard: dashboard,
	})

	return &testEnv{e: e, store: store, notifier: notifier, mailer: mailer, archive: archive, export: export}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStatusHandler(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "test", body["version"])
		assert.Equal(t, "ok", body["database"])
	}
}

type pingFunc func() error

func (f pingFunc) Ping(context.Context) error { return f() }

func TestStatusHandler_DatabaseDown(t *testing.T) {
	e := echo.New()
	h := NewStatusHandler("v1", pingFunc(func() error { return errors.New("connection refused") }))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.HandleStatus(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		showDetails bool
		wantStatus  int
		wantCode    string
		wantDetails string
	}{
		{"api error", NewNotFoundError("task", "42"), false, http.StatusNotFound, "NOT_FOUND", ""},
		{"wrapped api error", fmt.Errorf("outer: %w", NewValidationError("date")), false, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), false, http.StatusMethodNotAllowed, "HTTP_ERROR", ""},
		{"unknown hidden", errors.New("secret"), false, http.StatusInternalServerError, "UNKNOWN_ERROR", ""},
		{"unknown shown", errors.New("secret"), true, http.StatusInternalServerError, "UNKNOWN_ERROR", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.showDetails)(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[APIError](t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantDetails, body.Details)
		})
	}
}

func TestErrorHandler_RequestID(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")

	ErrorHandler(false)(NewNotFoundError("task", "42"), c)

	body := decode[APIError](t, rec)
	assert.Equal(t, "req-123", body.RequestID)
}

func TestStoreError(t *testing.T) {
	err := storeError(fmt.Errorf("task x: %w", storage.ErrNotFound), "task", "x", "failed")
	assert.Equal(t, http.StatusNotFound, err.Status)

	err = storeError(errors.New("db gone"), "task", "x", "failed")
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "db gone", err.Details)
}
