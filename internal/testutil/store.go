package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/amimagid/ami-super-app/internal/storage"
	"go.uber.org/zap/zaptest"
)

// NewTestStore opens a migrated DuckDB store in a temp directory and closes
// it when the test ends.
func NewTestStore(t testing.TB) *storage.Store {
	t.Helper()
	s, err := storage.OpenDuckDB(context.Background(), filepath.Join(t.TempDir(), "test.duckdb"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
