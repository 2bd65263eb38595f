package store

import "context"

// Task is the object representing a pregnancy checklist task.
type Task struct {
	ID        int32
	UID       string
	Title     string
	DueDate   *string // "YYYY-MM-DD"
	Priority  string  // "low", "medium", "high"
	Completed bool
	CreatedTs int64
}

// FindTask is the find condition for tasks.
type FindTask struct {
	ID        *int32
	UID       *string
	Completed *bool

	Limit *int
}

// UpdateTask is the update request for a task.
type UpdateTask struct {
	ID        int32
	Title     *string
	DueDate   *string
	Priority  *string
	Completed *bool
}

// DeleteTask is the delete request for a task.
type DeleteTask struct {
	ID int32
}

func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	return s.driver.CreateTask(ctx, create)
}

func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	return s.driver.ListTasks(ctx, find)
}

func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error) {
	return s.driver.UpdateTask(ctx, update)
}

func (s *Store) DeleteTask(ctx context.Context, delete *DeleteTask) error {
	return s.driver.DeleteTask(ctx, delete)
}
