package store

import "context"

// PregnancyProfile is the object representing the user's pregnancy profile.
// The underlying table holds at most one row: setting a profile replaces
// any existing one.
type PregnancyProfile struct {
	ID int32

	// LMP is the last menstrual period date, "YYYY-MM-DD".
	LMP          *string
	CycleLength  *int
	PeriodLength *int
	Age          *int
	Weight       *float64
	Location     *string
	// DueDate is derived from LMP when the profile is set, "YYYY-MM-DD".
	DueDate *string
}

// UpdatePregnancyProfile is the update request for the pregnancy profile.
type UpdatePregnancyProfile struct {
	LMP          *string
	CycleLength  *int
	PeriodLength *int
	Age          *int
	Weight       *float64
	Location     *string
	DueDate      *string
}

// GetPregnancyProfile returns the latest profile row, or nil if none exists.
func (s *Store) GetPregnancyProfile(ctx context.Context) (*PregnancyProfile, error) {
	return s.driver.GetPregnancyProfile(ctx)
}

// SetPregnancyProfile replaces the profile row.
func (s *Store) SetPregnancyProfile(ctx context.Context, set *PregnancyProfile) (*PregnancyProfile, error) {
	return s.driver.SetPregnancyProfile(ctx, set)
}

// UpdatePregnancyProfile updates fields of the existing profile row.
func (s *Store) UpdatePregnancyProfile(ctx context.Context, update *UpdatePregnancyProfile) (*PregnancyProfile, error) {
	return s.driver.UpdatePregnancyProfile(ctx, update)
}

// DeletePregnancyProfile removes the profile row.
func (s *Store) DeletePregnancyProfile(ctx context.Context) error {
	return s.driver.DeletePregnancyProfile(ctx)
}
