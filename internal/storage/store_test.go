package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDuckDB(context.Background(), filepath.Join(t.TempDir(), "test.duckdb"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strp(s string) *string { return &s }

func f64p(v float64) *float64 { return &v }
