// Package contextcache maintains a two-tier (memory + disk) cache of
// denormalized pregnancy context records consumed by the agent.
package contextcache

import "time"

// Category identifies which part of a context record a mutation touched.
type Category string

const (
	CategoryProfile       Category = "profile"
	CategoryWeight        Category = "weight"
	CategoryMedicine      Category = "medicine"
	CategorySymptoms      Category = "symptoms"
	CategoryBloodPressure Category = "blood_pressure"
	CategoryDischarge     Category = "discharge"
	// CategoryAll refreshes the profile and every tracking category.
	CategoryAll Category = "all"
)

// TrackingCategories lists the five tracking categories in record order.
var TrackingCategories = []Category{
	CategoryWeight,
	CategoryMedicine,
	CategorySymptoms,
	CategoryBloodPressure,
	CategoryDischarge,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryProfile, CategoryWeight, CategoryMedicine, CategorySymptoms,
		CategoryBloodPressure, CategoryDischarge, CategoryAll:
		return true
	}
	return false
}

// Operation describes the mutation that triggered a cache update. It is
// informational only; the cache always re-derives the current state of
// the named category rather than applying a delta.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// WeightEntry is one weight log row as rendered into a context record.
type WeightEntry struct {
	Week   int      `json:"week"`
	Weight *float64 `json:"weight"`
	Note   *string  `json:"note"`
	Date   string   `json:"date"`
}

// MedicineEntry is one medicine log row.
type MedicineEntry struct {
	Week  int     `json:"week"`
	Name  *string `json:"name"`
	Dose  *string `json:"dose"`
	Time  *string `json:"time"`
	Taken *bool   `json:"taken"`
	Note  *string `json:"note"`
	Date  string  `json:"date"`
}

// SymptomEntry is one symptom log row.
type SymptomEntry struct {
	Week    int     `json:"week"`
	Symptom *string `json:"symptom"`
	Note    *string `json:"note"`
	Date    string  `json:"date"`
}

// BloodPressureEntry is one blood pressure log row.
type BloodPressureEntry struct {
	Week      int     `json:"week"`
	Systolic  *int    `json:"systolic"`
	Diastolic *int    `json:"diastolic"`
	Time      *string `json:"time"`
	Note      *string `json:"note"`
	Date      string  `json:"date"`
}

// DischargeEntry is one discharge log row.
type DischargeEntry struct {
	Week     int     `json:"week"`
	Type     *string `json:"type"`
	Color    *string `json:"color"`
	Bleeding *string `json:"bleeding"`
	Note     *string `json:"note"`
	Date     string  `json:"date"`
}

// TrackingData holds the capped per-category tracking history.
// Weight, medicine and symptoms are ordered by descending week number;
// blood pressure and discharge by descending creation timestamp. The
// asymmetry is inherited behavior and deliberately preserved.
type TrackingData struct {
	Weight        []WeightEntry        `json:"weight"`
	Medicine      []MedicineEntry      `json:"medicine"`
	Symptoms      []SymptomEntry       `json:"symptoms"`
	BloodPressure []BloodPressureEntry `json:"blood_pressure"`
	Discharge     []DischargeEntry     `json:"discharge"`
}

// Record is the denormalized per-user context snapshot: the latest
// profile fields, the derived gestational week, and the capped tracking
// history.
type Record struct {
	CurrentWeek  int          `json:"current_week"`
	Location     *string      `json:"location"`
	Age          *int         `json:"age"`
	Weight       *float64     `json:"weight"`
	DueDate      *string      `json:"due_date"`
	LMP          *string      `json:"lmp"`
	CycleLength  *int         `json:"cycle_length"`
	PeriodLength *int         `json:"period_length"`
	TrackingData TrackingData `json:"tracking_data"`
	LastUpdated  time.Time    `json:"last_updated"`
}

// Clone returns a deep copy of the record so callers can hold it after
// the cache lock is released.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	clone.TrackingData.Weight = append([]WeightEntry(nil), r.TrackingData.Weight...)
	clone.TrackingData.Medicine = append([]MedicineEntry(nil), r.TrackingData.Medicine...)
	clone.TrackingData.Symptoms = append([]SymptomEntry(nil), r.TrackingData.Symptoms...)
	clone.TrackingData.BloodPressure = append([]BloodPressureEntry(nil), r.TrackingData.BloodPressure...)
	clone.TrackingData.Discharge = append([]DischargeEntry(nil), r.TrackingData.Discharge...)
	return &clone
}

// truncate caps every tracking category at n entries, keeping the head
// of each already-ordered slice. It reports whether anything was cut.
func (r *Record) truncate(n int) bool {
	cut := false
	if len(r.TrackingData.Weight) > n {
		r.TrackingData.Weight = r.TrackingData.Weight[:n]
		cut = true
	}
	if len(r.TrackingData.Medicine) > n {
		r.TrackingData.Medicine = r.TrackingData.Medicine[:n]
		cut = true
	}
	if len(r.TrackingData.Symptoms) > n {
		r.TrackingData.Symptoms = r.TrackingData.Symptoms[:n]
		cut = true
	}
	if len(r.TrackingData.BloodPressure) > n {
		r.TrackingData.BloodPressure = r.TrackingData.BloodPressure[:n]
		cut = true
	}
	if len(r.TrackingData.Discharge) > n {
		r.TrackingData.Discharge = r.TrackingData.Discharge[:n]
		cut = true
	}
	return cut
}
