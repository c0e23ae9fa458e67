package models

import "time"

// TaskType separates the two task lists.
type TaskType string

const (
	TaskTypeWork    TaskType = "work"
	TaskTypePrivate TaskType = "private"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	return t == TaskTypeWork || t == TaskTypePrivate
}

// Task is an item on the weekly personal task list.
type Task struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	WeekStart string    `json:"weekStart" db:"week_start"`
	Deadline  *string   `json:"deadline" db:"deadline"`
	TaskType  TaskType  `json:"taskType" db:"task_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TaskPatch is a partial task update.
type TaskPatch struct {
	Title     Optional[string] `json:"title"`
	Completed Optional[bool]   `json:"completed"`
	Deadline  Optional[string] `json:"deadline"`
}

// Apply copies every set field of the patch onto t.
func (p *TaskPatch) Apply(t *Task) {
	if p.Title.Set && p.Title.Value != nil {
		t.Title = *p.Title.Value
	}
	if p.Completed.Set && p.Completed.Value != nil {
		t.Completed = *p.Completed.Value
	}
	p.Deadline.ApplyTo(&t.Deadline)
}
