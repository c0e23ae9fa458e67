package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEntries_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e := &models.HealthEntry{Date: "2024-01-02", Weight: f64p(81.2), BPAMRight: strp("120/80"), BPAMTime: strp("7:15")}
	require.NoError(t, s.CreateHealthEntry(ctx, e))
	require.NotEmpty(t, e.ID)

	require.NoError(t, s.CreateHealthEntry(ctx, &models.HealthEntry{Date: "2024-01-01", Workout: strp("Run")}))
	require.NoError(t, s.CreateHealthEntry(ctx, &models.HealthEntry{Date: "2024-01-03"}))

	got, err := s.GetHealthEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", got.Date)
	require.NotNil(t, got.Weight)
	assert.InDelta(t, 81.2, *got.Weight, 1e-9)
	assert.Equal(t, strp("7:15"), got.BPAMTime)
	assert.Nil(t, got.BPPMRight)

	list, err := s.ListHealthEntries(ctx, HealthFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"},
		[]string{list[0].Date, list[1].Date, list[2].Date})

	ranged, err := s.ListHealthEntries(ctx, HealthFilter{From: "2024-01-02", To: "2024-01-02"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, e.ID, ranged[0].ID)

	patch := &models.HealthEntryPatch{
		Weight:    models.Optional[float64]{Set: true},
		BPPMRight: models.Some("130/85"),
	}
	updated, err := s.UpdateHealthEntry(ctx, e.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, updated.Weight)
	assert.Equal(t, strp("130/85"), updated.BPPMRight)
	assert.Equal(t, strp("120/80"), updated.BPAMRight)

	require.NoError(t, s.DeleteHealthEntry(ctx, e.ID))
	_, err = s.GetHealthEntry(ctx, e.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteHealthEntry(ctx, e.ID), ErrNotFound))

	_, err = s.UpdateHealthEntry(ctx, "missing", patch)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestImportHealthEntries_Policies(t *testing.T) {
	ctx := context.Background()

	batch := func() []models.HealthEntry {
		return []models.HealthEntry{
			{Date: "2024-01-01", Weight: f64p(80)},
			{Date: "2024-01-02", Weight: f64p(81)},
		}
	}

	t.Run("upsert keeps one record per date", func(t *testing.T) {
		s := newTestStore(t)

		stats, err := s.ImportHealthEntries(ctx, batch(), ImportOptions{Policy: models.DuplicateUpsert})
		require.NoError(t, err)
		assert.Equal(t, models.ImportStats{Inserted: 2}, stats)

		second := batch()
		second[0].Weight = f64p(79.5)
		stats, err = s.ImportHealthEntries(ctx, second, ImportOptions{Policy: models.DuplicateUpsert})
		require.NoError(t, err)
		assert.Equal(t, models.ImportStats{Updated: 2}, stats)

		list, err := s.ListHealthEntries(ctx, HealthFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.InDelta(t, 79.5, *list[1].Weight, 1e-9)
	})

	t.Run("upsert collapses repeated dates within one batch", func(t *testing.T) {
		s := newTestStore(t)

		stats, err := s.ImportHealthEntries(ctx, []models.HealthEntry{
			{Date: "2024-03-01", Weight: f64p(80)},
			{Date: "2024-03-01", Weight: f64p(81)},
		}, ImportOptions{Policy: models.DuplicateUpsert})
		require.NoError(t, err)
		assert.Equal(t, models.ImportStats{Inserted: 1, Updated: 1}, stats)

		list, err := s.ListHealthEntries(ctx, HealthFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.InDelta(t, 81, *list[0].Weight, 1e-9)
	})

	t.Run("append duplicates", func(t *testing.T) {
		s := newTestStore(t)
		for i := 0; i < 2; i++ {
			_, err := s.ImportHealthEntries(ctx, batch(), ImportOptions{Policy: models.DuplicateAppend})
			require.NoError(t, err)
		}
		n, err := s.CountHealthEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("skip leaves existing rows", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.ImportHealthEntries(ctx, batch(), ImportOptions{})
		require.NoError(t, err)

		second := batch()
		second[0].Weight = f64p(70)
		second = append(second, models.HealthEntry{Date: "2024-01-03"})
		stats, err := s.ImportHealthEntries(ctx, second, ImportOptions{Policy: models.DuplicateSkip})
		require.NoError(t, err)
		assert.Equal(t, models.ImportStats{Inserted: 1, Skipped: 2}, stats)

		list, err := s.ListHealthEntries(ctx, HealthFilter{To: "2024-01-01"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.InDelta(t, 80, *list[0].Weight, 1e-9)
	})

	t.Run("replace clears first", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.ImportHealthEntries(ctx, batch(), ImportOptions{})
		require.NoError(t, err)

		stats, err := s.ImportHealthEntries(ctx, []models.HealthEntry{{Date: "2024-02-01"}},
			ImportOptions{Policy: models.DuplicateAppend, Replace: true})
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Removed)
		assert.Equal(t, 1, stats.Inserted)

		n, err := s.CountHealthEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestImportHealthEntries_Atomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// The repeated id makes the second insert fail.
	entries := []models.HealthEntry{
		{ID: "dup", Date: "2024-01-01"},
		{ID: "dup", Date: "2024-01-02"},
	}
	_, err := s.ImportHealthEntries(ctx, entries, ImportOptions{Policy: models.DuplicateAppend})
	require.Error(t, err)

	n, err := s.CountHealthEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
