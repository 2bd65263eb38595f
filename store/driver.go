package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// PregnancyProfile model related methods.
	// The profile table holds at most one row; Set replaces it wholesale.
	GetPregnancyProfile(ctx context.Context) (*PregnancyProfile, error)
	SetPregnancyProfile(ctx context.Context, set *PregnancyProfile) (*PregnancyProfile, error)
	UpdatePregnancyProfile(ctx context.Context, update *UpdatePregnancyProfile) (*PregnancyProfile, error)
	DeletePregnancyProfile(ctx context.Context) error

	// WeightLog model related methods.
	CreateWeightLog(ctx context.Context, create *WeightLog) (*WeightLog, error)
	ListWeightLogs(ctx context.Context, find *FindTrackingLog) ([]*WeightLog, error)
	UpdateWeightLog(ctx context.Context, update *UpdateWeightLog) error
	DeleteWeightLog(ctx context.Context, delete *DeleteTrackingLog) error

	// MedicineLog model related methods.
	CreateMedicineLog(ctx context.Context, create *MedicineLog) (*MedicineLog, error)
	ListMedicineLogs(ctx context.Context, find *FindTrackingLog) ([]*MedicineLog, error)
	UpdateMedicineLog(ctx context.Context, update *UpdateMedicineLog) error
	DeleteMedicineLog(ctx context.Context, delete *DeleteTrackingLog) error

	// SymptomLog model related methods.
	CreateSymptomLog(ctx context.Context, create *SymptomLog) (*SymptomLog, error)
	ListSymptomLogs(ctx context.Context, find *FindTrackingLog) ([]*SymptomLog, error)
	UpdateSymptomLog(ctx context.Context, update *UpdateSymptomLog) error
	DeleteSymptomLog(ctx context.Context, delete *DeleteTrackingLog) error

	// BloodPressureLog model related methods.
	CreateBloodPressureLog(ctx context.Context, create *BloodPressureLog) (*BloodPressureLog, error)
	ListBloodPressureLogs(ctx context.Context, find *FindTrackingLog) ([]*BloodPressureLog, error)
	UpdateBloodPressureLog(ctx context.Context, update *UpdateBloodPressureLog) error
	DeleteBloodPressureLog(ctx context.Context, delete *DeleteTrackingLog) error

	// DischargeLog model related methods.
	CreateDischargeLog(ctx context.Context, create *DischargeLog) (*DischargeLog, error)
	ListDischargeLogs(ctx context.Context, find *FindTrackingLog) ([]*DischargeLog, error)
	UpdateDischargeLog(ctx context.Context, update *UpdateDischargeLog) error
	DeleteDischargeLog(ctx context.Context, delete *DeleteTrackingLog) error

	// Appointment model related methods.
	CreateAppointment(ctx context.Context, create *Appointment) (*Appointment, error)
	ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error)
	UpdateAppointment(ctx context.Context, update *UpdateAppointment) (*Appointment, error)
	DeleteAppointment(ctx context.Context, delete *DeleteAppointment) error

	// Task model related methods.
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error)
	DeleteTask(ctx context.Context, delete *DeleteTask) error

	// DocumentEmbedding model related methods.
	UpsertDocumentEmbedding(ctx context.Context, upsert *DocumentEmbedding) (*DocumentEmbedding, error)
	ListDocumentEmbeddings(ctx context.Context, find *FindDocumentEmbedding) ([]*DocumentEmbedding, error)
	DeleteDocumentEmbeddings(ctx context.Context, delete *DeleteDocumentEmbedding) error

	// SearchDocumentsByVector performs semantic search using vector similarity.
	// Returns documents and their similarity scores, best first.
	SearchDocumentsByVector(ctx context.Context, collection string, embedding []float32, limit int) ([]*DocumentEmbedding, []float32, error)
}
