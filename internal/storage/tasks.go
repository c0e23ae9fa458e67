package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const taskColumns = `id, title, completed, week_start, deadline, task_type, created_at, updated_at`

// ListTasks returns the tasks of one week and list, earliest deadline first.
// Tasks without a deadline come last, in creation order.
func (s *Store) ListTasks(ctx context.Context, weekStart string, taskType models.TaskType) ([]models.Task, error) {
	query := s.db.Rebind(`SELECT ` + taskColumns + ` FROM my_tasks
		WHERE week_start = ? AND task_type = ?
		ORDER BY deadline ASC NULLS LAST, created_at ASC`)

	tasks := make([]models.Task, 0)
	if err := s.db.SelectContext(ctx, &tasks, query, weekStart, string(taskType)); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns one task by id.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q sqlx.ExtContext, id string) (*models.Task, error) {
	var t models.Task
	if err := sqlx.GetContext(ctx, q, &t, q.Rebind(`SELECT `+taskColumns+` FROM my_tasks WHERE id = ?`), id); err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// CreateTask inserts t. Id and task type are filled in when empty.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.TaskType == "" {
		t.TaskType = models.TaskTypeWork
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO my_tasks (`+taskColumns+`)
		VALUES (:id, :title, :completed, :week_start, :deadline, :task_type, :created_at, :updated_at)`, t)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// UpdateTask applies a partial update and returns the stored result.
func (s *Store) UpdateTask(ctx context.Context, id string, patch *models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(t)
		t.UpdatedAt = time.Now().UTC()

		_, err = tx.NamedExecContext(ctx, `UPDATE my_tasks SET
			title = :title, completed = :completed, deadline = :deadline, updated_at = :updated_at
			WHERE id = :id`, t)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		updated = t
		return nil
	})
	return updated, err
}

// DeleteTask removes one task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM my_tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkAffected(res, "task", id)
}
