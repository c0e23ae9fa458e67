package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/amimagid/ami-super-app/internal/testutil"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

const goodCSV = "Date,Weight (kg),Workout\n2024-06-10,82.5,Run\n2024-06-11,82.1,\n"

func newWatcher(t *testing.T) (*Watcher, *storage.Store) {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := testutil.NewTestStore(t)
	mgr := upload.NewManager(store, nil, nil, log)
	w, err := New(t.TempDir(), "*.{csv,xlsx}", mgr, log)
	require.NoError(t, err)
	return w, store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(t.TempDir(), "[", nil, nil)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	w, _ := newWatcher(t)
	assert.True(t, w.Matches(filepath.Join(w.Dir(), "log.csv")))
	assert.True(t, w.Matches(filepath.Join(w.Dir(), "log.xlsx")))
	assert.False(t, w.Matches(filepath.Join(w.Dir(), "notes.txt")))
	assert.False(t, w.Matches(filepath.Join(w.Dir(), ProcessedDir, "log.csv")))
}

func TestScan(t *testing.T) {
	w, store := newWatcher(t)
	writeFile(t, w.Dir(), "a.csv", goodCSV)
	writeFile(t, w.Dir(), "b.xlsx", "not a workbook")
	writeFile(t, w.Dir(), "readme.txt", "ignored")

	n, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.FileExists(t, filepath.Join(w.Dir(), ProcessedDir, "a.csv"))
	assert.FileExists(t, filepath.Join(w.Dir(), FailedDir, "b.xlsx"))
	assert.FileExists(t, filepath.Join(w.Dir(), "readme.txt"))
	assert.NoFileExists(t, filepath.Join(w.Dir(), "a.csv"))

	count, err := store.CountHealthEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestScan_NameCollision(t *testing.T) {
	w, _ := newWatcher(t)
	writeFile(t, w.Dir(), "a.csv", goodCSV)
	_, err := w.Scan(context.Background())
	require.NoError(t, err)

	writeFile(t, w.Dir(), "a.csv", goodCSV)
	_, err = w.Scan(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(w.Dir(), ProcessedDir))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun(t *testing.T) {
	w, store := newWatcher(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w.SetSettle(50 * time.Millisecond)
	results := make(chan Result, 4)
	w.Results = results

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, w.Run(ctx))
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, w.Dir(), "dropped.csv", goodCSV)

	select {
	case res := <-results:
		require.NoError(t, res.Error)
		assert.Equal(t, filepath.Join(w.Dir(), ProcessedDir, "dropped.csv"), res.Dest)
		require.NotNil(t, res.Job)
		assert.Equal(t, 2, res.Job.Inserted)
	case <-time.After(5 * time.Second):
		t.Fatal("file was not imported")
	}

	count, err := store.CountHealthEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
