package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newStaticServer() *echo.Echo {
	e := echo.New()
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	RegisterFS(e, fstest.MapFS{
		"index.html":         {Data: []byte("<html>app</html>")},
		"assets/app-1a2b.js": {Data: []byte("console.log(1)")},
		"favicon.ico":        {Data: []byte{0, 0, 1, 0}},
	})
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRegisterFS(t *testing.T) {
	e := newStaticServer()

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"root", "/", http.StatusOK, "<html>app</html>"},
		{"client route", "/health-log/charts", http.StatusOK, "<html>app</html>"},
		{"asset", "/assets/app-1a2b.js", http.StatusOK, "console.log(1)"},
		{"api route", "/api/health", http.StatusOK, "healthy"},
		{"unknown api route", "/api/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(e, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}

	assert.Contains(t, get(e, "/assets/app-1a2b.js").Header().Get("Cache-Control"), "immutable")
	assert.Equal(t, "no-cache", get(e, "/").Header().Get("Cache-Control"))
}

func TestEmbeddedPlaceholder(t *testing.T) {
	assert.True(t, HasEmbeddedFiles())

	e := echo.New()
	assert.NoError(t, RegisterStaticRoutes(e))
	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Super App")
}
