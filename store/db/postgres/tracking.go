package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

// Category orderings match the SQLite driver: week_number descending for
// weight/medicine/symptoms, created_ts descending for blood pressure and
// discharge.

func trackingWhere(find *store.FindTrackingLog) (string, []any) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.WeekNumber; v != nil {
		where, args = append(where, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	return strings.Join(where, " AND "), args
}

func withLimit(query string, find *store.FindTrackingLog) string {
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}
	return query
}

func (d *DB) CreateWeightLog(ctx context.Context, create *store.WeightLog) (*store.WeightLog, error) {
	stmt := `
		INSERT INTO weekly_weight (week_number, weight, note)
		VALUES (` + placeholders(3) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.WeekNumber, create.Weight, create.Note).Scan(
		&create.ID, &create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create weight log")
	}
	return create, nil
}

func (d *DB) ListWeightLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.WeightLog, error) {
	where, args := trackingWhere(find)
	query := withLimit(`
		SELECT id, week_number, weight, note, created_ts
		FROM weekly_weight WHERE `+where+` ORDER BY week_number DESC`, find)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list weight logs")
	}
	defer rows.Close()

	list := []*store.WeightLog{}
	for rows.Next() {
		var log store.WeightLog
		var weight sql.NullFloat64
		var note sql.NullString
		if err := rows.Scan(&log.ID, &log.WeekNumber, &weight, &note, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan weight log")
		}
		if weight.Valid {
			log.Weight = &weight.Float64
		}
		if note.Valid {
			log.Note = &note.String
		}
		list = append(list, &log)
	}
	return list, rows.Err()
}

func (d *DB) UpdateWeightLog(ctx context.Context, update *store.UpdateWeightLog) error {
	set, args := []string{}, []any{}
	if v := update.WeekNumber; v != nil {
		set, args = append(set, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Weight; v != nil {
		set, args = append(set, "weight = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, update.ID)
	stmt := "UPDATE weekly_weight SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update weight log")
	}
	return nil
}

func (d *DB) DeleteWeightLog(ctx context.Context, delete *store.DeleteTrackingLog) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM weekly_weight WHERE id = $1", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete weight log")
	}
	return nil
}

func (d *DB) CreateMedicineLog(ctx context.Context, create *store.MedicineLog) (*store.MedicineLog, error) {
	stmt := `
		INSERT INTO weekly_medicine (week_number, name, dose, time, taken, note)
		VALUES (` + placeholders(6) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.WeekNumber, create.Name, create.Dose, create.Time, create.Taken, create.Note,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create medicine log")
	}
	return create, nil
}

func (d *DB) ListMedicineLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.MedicineLog, error) {
	where, args := trackingWhere(find)
	query := withLimit(`
		SELECT id, week_number, name, dose, time, taken, note, created_ts
		FROM weekly_medicine WHERE `+where+` ORDER BY week_number DESC`, find)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list medicine logs")
	}
	defer rows.Close()

	list := []*store.MedicineLog{}
	for rows.Next() {
		var log store.MedicineLog
		var name, dose, timeOfDay, note sql.NullString
		var taken sql.NullBool
		if err := rows.Scan(&log.ID, &log.WeekNumber, &name, &dose, &timeOfDay, &taken, &note, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan medicine log")
		}
		if name.Valid {
			log.Name = &name.String
		}
		if dose.Valid {
			log.Dose = &dose.String
		}
		if timeOfDay.Valid {
			log.Time = &timeOfDay.String
		}
		if taken.Valid {
			log.Taken = &taken.Bool
		}
		if note.Valid {
			log.Note = &note.String
		}
		list = append(list, &log)
	}
	return list, rows.Err()
}

func (d *DB) UpdateMedicineLog(ctx context.Context, update *store.UpdateMedicineLog) error {
	set, args := []string{}, []any{}
	if v := update.WeekNumber; v != nil {
		set, args = append(set, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Dose; v != nil {
		set, args = append(set, "dose = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Time; v != nil {
		set, args = append(set, "time = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Taken; v != nil {
		set, args = append(set, "taken = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, update.ID)
	stmt := "UPDATE weekly_medicine SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update medicine log")
	}
	return nil
}

func (d *DB) DeleteMedicineLog(ctx context.Context, delete *store.DeleteTrackingLog) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM weekly_medicine WHERE id = $1", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete medicine log")
	}
	return nil
}

func (d *DB) CreateSymptomLog(ctx context.Context, create *store.SymptomLog) (*store.SymptomLog, error) {
	stmt := `
		INSERT INTO weekly_symptoms (week_number, symptom, note)
		VALUES (` + placeholders(3) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.WeekNumber, create.Symptom, create.Note).Scan(
		&create.ID, &create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create symptom log")
	}
	return create, nil
}

func (d *DB) ListSymptomLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.SymptomLog, error) {
	where, args := trackingWhere(find)
	query := withLimit(`
		SELECT id, week_number, symptom, note, created_ts
		FROM weekly_symptoms WHERE `+where+` ORDER BY week_number DESC`, find)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list symptom logs")
	}
	defer rows.Close()

	list := []*store.SymptomLog{}
	for rows.Next() {
		var log store.SymptomLog
		var symptom, note sql.NullString
		if err := rows.Scan(&log.ID, &log.WeekNumber, &symptom, &note, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan symptom log")
		}
		if symptom.Valid {
			log.Symptom = &symptom.String
		}
		if note.Valid {
			log.Note = &note.String
		}
		list = append(list, &log)
	}
	return list, rows.Err()
}

func (d *DB) UpdateSymptomLog(ctx context.Context, update *store.UpdateSymptomLog) error {
	set, args := []string{}, []any{}
	if v := update.WeekNumber; v != nil {
		set, args = append(set, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Symptom; v != nil {
		set, args = append(set, "symptom = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, update.ID)
	stmt := "UPDATE weekly_symptoms SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update symptom log")
	}
	return nil
}

func (d *DB) DeleteSymptomLog(ctx context.Context, delete *store.DeleteTrackingLog) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM weekly_symptoms WHERE id = $1", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete symptom log")
	}
	return nil
}

func (d *DB) CreateBloodPressureLog(ctx context.Context, create *store.BloodPressureLog) (*store.BloodPressureLog, error) {
	stmt := `
		INSERT INTO blood_pressure_logs (week_number, systolic, diastolic, time, note)
		VALUES (` + placeholders(5) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.WeekNumber, create.Systolic, create.Diastolic, create.Time, create.Note,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create blood pressure log")
	}
	return create, nil
}

func (d *DB) ListBloodPressureLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.BloodPressureLog, error) {
	where, args := trackingWhere(find)
	query := withLimit(`
		SELECT id, week_number, systolic, diastolic, time, note, created_ts
		FROM blood_pressure_logs WHERE `+where+` ORDER BY created_ts DESC`, find)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list blood pressure logs")
	}
	defer rows.Close()

	list := []*store.BloodPressureLog{}
	for rows.Next() {
		var log store.BloodPressureLog
		var systolic, diastolic sql.NullInt64
		var timeOfDay, note sql.NullString
		if err := rows.Scan(&log.ID, &log.WeekNumber, &systolic, &diastolic, &timeOfDay, &note, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan blood pressure log")
		}
		if systolic.Valid {
			v := int(systolic.Int64)
			log.Systolic = &v
		}
		if diastolic.Valid {
			v := int(diastolic.Int64)
			log.Diastolic = &v
		}
		if timeOfDay.Valid {
			log.Time = &timeOfDay.String
		}
		if note.Valid {
			log.Note = &note.String
		}
		list = append(list, &log)
	}
	return list, rows.Err()
}

func (d *DB) UpdateBloodPressureLog(ctx context.Context, update *store.UpdateBloodPressureLog) error {
	set, args := []string{}, []any{}
	if v := update.WeekNumber; v != nil {
		set, args = append(set, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Systolic; v != nil {
		set, args = append(set, "systolic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Diastolic; v != nil {
		set, args = append(set, "diastolic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Time; v != nil {
		set, args = append(set, "time = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, update.ID)
	stmt := "UPDATE blood_pressure_logs SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update blood pressure log")
	}
	return nil
}

func (d *DB) DeleteBloodPressureLog(ctx context.Context, delete *store.DeleteTrackingLog) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM blood_pressure_logs WHERE id = $1", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete blood pressure log")
	}
	return nil
}

func (d *DB) CreateDischargeLog(ctx context.Context, create *store.DischargeLog) (*store.DischargeLog, error) {
	stmt := `
		INSERT INTO discharge_logs (week_number, type, color, bleeding, note)
		VALUES (` + placeholders(5) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.WeekNumber, create.Type, create.Color, create.Bleeding, create.Note,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create discharge log")
	}
	return create, nil
}

func (d *DB) ListDischargeLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.DischargeLog, error) {
	where, args := trackingWhere(find)
	query := withLimit(`
		SELECT id, week_number, type, color, bleeding, note, created_ts
		FROM discharge_logs WHERE `+where+` ORDER BY created_ts DESC`, find)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list discharge logs")
	}
	defer rows.Close()

	list := []*store.DischargeLog{}
	for rows.Next() {
		var log store.DischargeLog
		var dischargeType, color, bleeding, note sql.NullString
		if err := rows.Scan(&log.ID, &log.WeekNumber, &dischargeType, &color, &bleeding, &note, &log.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan discharge log")
		}
		if dischargeType.Valid {
			log.Type = &dischargeType.String
		}
		if color.Valid {
			log.Color = &color.String
		}
		if bleeding.Valid {
			log.Bleeding = &bleeding.String
		}
		if note.Valid {
			log.Note = &note.String
		}
		list = append(list, &log)
	}
	return list, rows.Err()
}

func (d *DB) UpdateDischargeLog(ctx context.Context, update *store.UpdateDischargeLog) error {
	set, args := []string{}, []any{}
	if v := update.WeekNumber; v != nil {
		set, args = append(set, "week_number = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Type; v != nil {
		set, args = append(set, "type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Color; v != nil {
		set, args = append(set, "color = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Bleeding; v != nil {
		set, args = append(set, "bleeding = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Note; v != nil {
		set, args = append(set, "note = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, update.ID)
	stmt := "UPDATE discharge_logs SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update discharge log")
	}
	return nil
}

func (d *DB) DeleteDischargeLog(ctx context.Context, delete *store.DeleteTrackingLog) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM discharge_logs WHERE id = $1", delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete discharge log")
	}
	return nil
}
