package store

import "context"

// The five tracking categories share the same find/delete shapes. List
// ordering is fixed per table: weight, medicine and symptom logs by
// week_number descending; blood pressure and discharge logs by created_ts
// descending. The asymmetry is inherited from the query shapes the cache
// was built against and is deliberately preserved.

// FindTrackingLog is the find condition for tracking logs.
type FindTrackingLog struct {
	ID         *int32
	WeekNumber *int

	// Pagination
	Limit *int
}

// DeleteTrackingLog is the delete request for tracking logs.
type DeleteTrackingLog struct {
	ID int32
}

// WeightLog is a weekly weight measurement.
type WeightLog struct {
	ID         int32
	WeekNumber int
	Weight     *float64
	Note       *string
	CreatedTs  int64
}

// UpdateWeightLog is the update request for a weight log.
type UpdateWeightLog struct {
	ID         int32
	WeekNumber *int
	Weight     *float64
	Note       *string
}

// MedicineLog is a weekly medicine intake entry.
type MedicineLog struct {
	ID         int32
	WeekNumber int
	Name       *string
	Dose       *string
	Time       *string
	Taken      *bool
	Note       *string
	CreatedTs  int64
}

// UpdateMedicineLog is the update request for a medicine log.
type UpdateMedicineLog struct {
	ID         int32
	WeekNumber *int
	Name       *string
	Dose       *string
	Time       *string
	Taken      *bool
	Note       *string
}

// SymptomLog is a weekly symptom entry.
type SymptomLog struct {
	ID         int32
	WeekNumber int
	Symptom    *string
	Note       *string
	CreatedTs  int64
}

// UpdateSymptomLog is the update request for a symptom log.
type UpdateSymptomLog struct {
	ID         int32
	WeekNumber *int
	Symptom    *string
	Note       *string
}

// BloodPressureLog is a blood pressure measurement.
type BloodPressureLog struct {
	ID         int32
	WeekNumber int
	Systolic   *int
	Diastolic  *int
	Time       *string
	Note       *string
	CreatedTs  int64
}

// UpdateBloodPressureLog is the update request for a blood pressure log.
type UpdateBloodPressureLog struct {
	ID         int32
	WeekNumber *int
	Systolic   *int
	Diastolic  *int
	Time       *string
	Note       *string
}

// DischargeLog is a discharge observation entry.
type DischargeLog struct {
	ID         int32
	WeekNumber int
	Type       *string
	Color      *string
	Bleeding   *string
	Note       *string
	CreatedTs  int64
}

// UpdateDischargeLog is the update request for a discharge log.
type UpdateDischargeLog struct {
	ID         int32
	WeekNumber *int
	Type       *string
	Color      *string
	Bleeding   *string
	Note       *string
}

func (s *Store) CreateWeightLog(ctx context.Context, create *WeightLog) (*WeightLog, error) {
	return s.driver.CreateWeightLog(ctx, create)
}

func (s *Store) ListWeightLogs(ctx context.Context, find *FindTrackingLog) ([]*WeightLog, error) {
	return s.driver.ListWeightLogs(ctx, find)
}

func (s *Store) UpdateWeightLog(ctx context.Context, update *UpdateWeightLog) error {
	return s.driver.UpdateWeightLog(ctx, update)
}

func (s *Store) DeleteWeightLog(ctx context.Context, delete *DeleteTrackingLog) error {
	return s.driver.DeleteWeightLog(ctx, delete)
}

func (s *Store) CreateMedicineLog(ctx context.Context, create *MedicineLog) (*MedicineLog, error) {
	return s.driver.CreateMedicineLog(ctx, create)
}

func (s *Store) ListMedicineLogs(ctx context.Context, find *FindTrackingLog) ([]*MedicineLog, error) {
	return s.driver.ListMedicineLogs(ctx, find)
}

func (s *Store) UpdateMedicineLog(ctx context.Context, update *UpdateMedicineLog) error {
	return s.driver.UpdateMedicineLog(ctx, update)
}

func (s *Store) DeleteMedicineLog(ctx context.Context, delete *DeleteTrackingLog) error {
	return s.driver.DeleteMedicineLog(ctx, delete)
}

func (s *Store) CreateSymptomLog(ctx context.Context, create *SymptomLog) (*SymptomLog, error) {
	return s.driver.CreateSymptomLog(ctx, create)
}

func (s *Store) ListSymptomLogs(ctx context.Context, find *FindTrackingLog) ([]*SymptomLog, error) {
	return s.driver.ListSymptomLogs(ctx, find)
}

func (s *Store) UpdateSymptomLog(ctx context.Context, update *UpdateSymptomLog) error {
	return s.driver.UpdateSymptomLog(ctx, update)
}

func (s *Store) DeleteSymptomLog(ctx context.Context, delete *DeleteTrackingLog) error {
	return s.driver.DeleteSymptomLog(ctx, delete)
}

func (s *Store) CreateBloodPressureLog(ctx context.Context, create *BloodPressureLog) (*BloodPressureLog, error) {
	return s.driver.CreateBloodPressureLog(ctx, create)
}

func (s *Store) ListBloodPressureLogs(ctx context.Context, find *FindTrackingLog) ([]*BloodPressureLog, error) {
	return s.driver.ListBloodPressureLogs(ctx, find)
}

func (s *Store) UpdateBloodPressureLog(ctx context.Context, update *UpdateBloodPressureLog) error {
	return s.driver.UpdateBloodPressureLog(ctx, update)
}

func (s *Store) DeleteBloodPressureLog(ctx context.Context, delete *DeleteTrackingLog) error {
	return s.driver.DeleteBloodPressureLog(ctx, delete)
}

func (s *Store) CreateDischargeLog(ctx context.Context, create *DischargeLog) (*DischargeLog, error) {
	return s.driver.CreateDischargeLog(ctx, create)
}

func (s *Store) ListDischargeLogs(ctx context.Context, find *FindTrackingLog) ([]*DischargeLog, error) {
	return s.driver.ListDischargeLogs(ctx, find)
}

func (s *Store) UpdateDischargeLog(ctx context.Context, update *UpdateDischargeLog) error {
	return s.driver.UpdateDischargeLog(ctx, update)
}

func (s *Store) DeleteDischargeLog(ctx context.Context, delete *DeleteTrackingLog) error {
	return s.driver.DeleteDischargeLog(ctx, delete)
}
