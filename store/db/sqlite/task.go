package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	stmt := `
		INSERT INTO task (uid, title, due_date, priority, completed)
		VALUES (` + placeholders(5) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Title, create.DueDate, create.Priority, create.Completed,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.Completed; v != nil {
		where, args = append(where, "completed = ?"), append(args, *v)
	}

	query := `
		SELECT id, uid, title, due_date, priority, completed, created_ts
		FROM task WHERE ` + strings.Join(where, " AND ") + ` ORDER BY due_date ASC, id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	defer rows.Close()

	list := []*store.Task{}
	for rows.Next() {
		var task store.Task
		var dueDate sql.NullString
		if err := rows.Scan(
			&task.ID, &task.UID, &task.Title, &dueDate, &task.Priority, &task.Completed, &task.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan task")
		}
		if dueDate.Valid {
			task.DueDate = &dueDate.String
		}
		list = append(list, &task)
	}
	return list, rows.Err()
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) (*store.Task, error) {
	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.DueDate; v != nil {
		set, args = append(set, "due_date = ?"), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = ?"), append(args, *v)
	}
	if v := update.Completed; v != nil {
		set, args = append(set, "completed = ?"), append(args, *v)
	}
	if len(set) > 0 {
		args = append(args, update.ID)
		if _, err := d.db.ExecContext(ctx, "UPDATE task SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, errors.Wrap(err, "failed to update task")
		}
	}

	list, err := d.ListTasks(ctx, &store.FindTask{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Errorf("task %d not found", update.ID)
	}
	return list[0], nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM task WHERE id = ?", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete task")
	}
	return nil
}
