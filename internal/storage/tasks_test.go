package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_ListOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	week := "2024-03-04"
	for _, tk := range []*models.Task{
		{Title: "no deadline", WeekStart: week},
		{Title: "late", WeekStart: week, Deadline: strp("2024-03-08")},
		{Title: "early", WeekStart: week, Deadline: strp("2024-03-05")},
		{Title: "private", WeekStart: week, TaskType: models.TaskTypePrivate},
		{Title: "other week", WeekStart: "2024-03-11"},
	} {
		require.NoError(t, s.CreateTask(ctx, tk))
		time.Sleep(2 * time.Millisecond)
	}

	tasks, err := s.ListTasks(ctx, week, models.TaskTypeWork)
	require.NoError(t, err)

	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
		assert.Equal(t, models.TaskTypeWork, tk.TaskType)
	}
	assert.Equal(t, []string{"early", "late", "no deadline"}, titles)

	private, err := s.ListTasks(ctx, week, models.TaskTypePrivate)
	require.NoError(t, err)
	require.Len(t, private, 1)
	assert.Equal(t, "private", private[0].Title)
}

func TestTasks_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tk := &models.Task{Title: "write report", WeekStart: "2024-03-04", Deadline: strp("2024-03-06")}
	require.NoError(t, s.CreateTask(ctx, tk))
	assert.False(t, tk.Completed)

	updated, err := s.UpdateTask(ctx, tk.ID, &models.TaskPatch{
		Completed: models.Some(true),
		Deadline:  models.Optional[string]{Set: true},
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, "write report", updated.Title)

	got, err := s.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, s.DeleteTask(ctx, tk.ID))
	assert.True(t, errors.Is(s.DeleteTask(ctx, tk.ID), ErrNotFound))

	_, err = s.UpdateTask(ctx, tk.ID, &models.TaskPatch{})
	assert.True(t, errors.Is(err, ErrNotFound))
}
