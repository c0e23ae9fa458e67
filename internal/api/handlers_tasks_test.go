package api

import (
	"net/http"
	"testing"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_Flow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/my-tasks", map[string]any{
		"title": "Write report", "weekStart": "2024-06-09", "deadline": "2024-06-14",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withDeadline := decode[models.Task](t, rec)
	assert.Equal(t, models.TaskTypeWork, withDeadline.TaskType)
	assert.False(t, withDeadline.Completed)

	rec = env.do(t, http.MethodPost, "/api/my-tasks", map[string]any{"title": "Plan", "weekStart": "2024-06-09"})
	require.Equal(t, http.StatusCreated, rec.Code)
	noDeadline := decode[models.Task](t, rec)

	rec = env.do(t, http.MethodPost, "/api/my-tasks", map[string]any{
		"title": "Groceries", "weekStart": "2024-06-09", "taskType": "private",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/my-tasks?weekStart=2024-06-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]models.Task](t, rec)
	require.Len(t, tasks, 2)
	assert.Equal(t, withDeadline.ID, tasks[0].ID)
	assert.Equal(t, noDeadline.ID, tasks[1].ID)

	rec = env.do(t, http.MethodGet, "/api/my-tasks?weekStart=2024-06-09&taskType=private", nil)
	assert.Len(t, decode[[]models.Task](t, rec), 1)

	rec = env.do(t, http.MethodPut, "/api/my-tasks/"+withDeadline.ID, `{"completed": true, "deadline": null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Task](t, rec)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, "Write report", updated.Title)

	rec = env.do(t, http.MethodDelete, "/api/my-tasks/"+withDeadline.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/my-tasks/"+withDeadline.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Len(t, env.notifier.Types(), 5)
}

func TestTasks_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"list without week", http.MethodGet, "/api/my-tasks", nil, http.StatusBadRequest},
		{"list bad type", http.MethodGet, "/api/my-tasks?weekStart=2024-06-09&taskType=chores", nil, http.StatusBadRequest},
		{"create without title", http.MethodPost, "/api/my-tasks", map[string]any{"weekStart": "2024-06-09"}, http.StatusBadRequest},
		{"create without week", http.MethodPost, "/api/my-tasks", map[string]any{"title": "x"}, http.StatusBadRequest},
		{"create bad deadline", http.MethodPost, "/api/my-tasks", map[string]any{"title": "x", "weekStart": "2024-06-09", "deadline": "soon"}, http.StatusBadRequest},
		{"update blank title", http.MethodPut, "/api/my-tasks/any", `{"title": " "}`, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/api/my-tasks/missing", `{"completed": true}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
