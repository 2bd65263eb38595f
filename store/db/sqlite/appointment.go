package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

func (d *DB) CreateAppointment(ctx context.Context, create *store.Appointment) (*store.Appointment, error) {
	stmt := `
		INSERT INTO appointment (uid, title, date, time, status, note)
		VALUES (` + placeholders(6) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Title, create.Date, create.Time, create.Status, create.Note,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create appointment")
	}
	return create, nil
}

func (d *DB) ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}

	query := `
		SELECT id, uid, title, date, time, status, note, created_ts
		FROM appointment WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	defer rows.Close()

	list := []*store.Appointment{}
	for rows.Next() {
		var appointment store.Appointment
		var timeOfDay, note sql.NullString
		if err := rows.Scan(
			&appointment.ID, &appointment.UID, &appointment.Title, &appointment.Date,
			&timeOfDay, &appointment.Status, &note, &appointment.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan appointment")
		}
		if timeOfDay.Valid {
			appointment.Time = &timeOfDay.String
		}
		if note.Valid {
			appointment.Note = &note.String
		}
		list = append(list, &appointment)
	}
	return list, rows.Err()
}

func (d *DB) UpdateAppointment(ctx context.Context, update *store.UpdateAppointment) (*store.Appointment, error) {
	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Date; v != nil {
		set, args = append(set, "date = ?"), append(args, *v)
	}
	if v := update.Time; v != nil {
		set, args = append(set, "time = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = ?"), append(args, *v)
	}
	if len(set) == 0 {
		list, err := d.ListAppointments(ctx, &store.FindAppointment{ID: &update.ID})
		if err != nil || len(list) == 0 {
			return nil, err
		}
		return list[0], nil
	}
	args = append(args, update.ID)

	if _, err := d.db.ExecContext(ctx, "UPDATE appointment SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, errors.Wrap(err, "failed to update appointment")
	}
	list, err := d.ListAppointments(ctx, &store.FindAppointment{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Errorf("appointment %d not found", update.ID)
	}
	return list[0], nil
}

func (d *DB) DeleteAppointment(ctx context.Context, delete *store.DeleteAppointment) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM appointment WHERE id = ?", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete appointment")
	}
	return nil
}
