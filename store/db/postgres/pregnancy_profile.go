package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

func (d *DB) GetPregnancyProfile(ctx context.Context) (*store.PregnancyProfile, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, lmp, cycle_length, period_length, age, weight, user_location, due_date
		FROM profile ORDER BY id DESC LIMIT 1
	`)
	profile, err := scanPregnancyProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get profile")
	}
	return profile, nil
}

func (d *DB) SetPregnancyProfile(ctx context.Context, set *store.PregnancyProfile) (*store.PregnancyProfile, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM profile"); err != nil {
		return nil, errors.Wrap(err, "failed to clear profile")
	}

	stmt := `
		INSERT INTO profile (lmp, cycle_length, period_length, age, weight, user_location, due_date)
		VALUES (` + placeholders(7) + `)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, stmt,
		set.LMP, set.CycleLength, set.PeriodLength, set.Age, set.Weight, set.Location, set.DueDate,
	).Scan(&set.ID); err != nil {
		return nil, errors.Wrap(err, "failed to insert profile")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return set, nil
}

func (d *DB) UpdatePregnancyProfile(ctx context.Context, update *store.UpdatePregnancyProfile) (*store.PregnancyProfile, error) {
	set, args := []string{}, []any{}
	if v := update.LMP; v != nil {
		set, args = append(set, "lmp = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.CycleLength; v != nil {
		set, args = append(set, "cycle_length = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PeriodLength; v != nil {
		set, args = append(set, "period_length = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Age; v != nil {
		set, args = append(set, "age = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Weight; v != nil {
		set, args = append(set, "weight = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "user_location = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DueDate; v != nil {
		set, args = append(set, "due_date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return d.GetPregnancyProfile(ctx)
	}

	stmt := fmt.Sprintf(`
		UPDATE profile SET %s
		WHERE id = (SELECT id FROM profile ORDER BY id DESC LIMIT 1)
		RETURNING id, lmp, cycle_length, period_length, age, weight, user_location, due_date
	`, strings.Join(set, ", "))
	profile, err := scanPregnancyProfile(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to update profile")
	}
	return profile, nil
}

func (d *DB) DeletePregnancyProfile(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM profile"); err != nil {
		return errors.Wrap(err, "failed to delete profile")
	}
	return nil
}

func scanPregnancyProfile(row *sql.Row) (*store.PregnancyProfile, error) {
	var profile store.PregnancyProfile
	var lmp, location, dueDate sql.NullString
	var cycleLength, periodLength, age sql.NullInt64
	var weight sql.NullFloat64

	if err := row.Scan(
		&profile.ID, &lmp, &cycleLength, &periodLength, &age, &weight, &location, &dueDate,
	); err != nil {
		return nil, err
	}

	if lmp.Valid {
		profile.LMP = &lmp.String
	}
	if cycleLength.Valid {
		v := int(cycleLength.Int64)
		profile.CycleLength = &v
	}
	if periodLength.Valid {
		v := int(periodLength.Int64)
		profile.PeriodLength = &v
	}
	if age.Valid {
		v := int(age.Int64)
		profile.Age = &v
	}
	if weight.Valid {
		profile.Weight = &weight.Float64
	}
	if location.Valid {
		profile.Location = &location.String
	}
	if dueDate.Valid {
		profile.DueDate = &dueDate.String
	}
	return &profile, nil
}
