package contextcache

import (
	"context"
	"time"

	berrors "github.com/babynest/babynest/internal/errors"
	"github.com/babynest/babynest/store"
)

const (
	dueDateLayout   = "2006-01-02"
	entryTimeLayout = "2006-01-02 15:04:05"

	pregnancyWeeks = 40
)

// Store is the read surface the builder needs from the relational
// store. *store.Store satisfies it; tests substitute a fake.
type Store interface {
	GetPregnancyProfile(ctx context.Context) (*store.PregnancyProfile, error)
	ListWeightLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.WeightLog, error)
	ListMedicineLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.MedicineLog, error)
	ListSymptomLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.SymptomLog, error)
	ListBloodPressureLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.BloodPressureLog, error)
	ListDischargeLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.DischargeLog, error)
}

// Builder assembles context records from the relational store. Both
// entry points are pure reads of current store state; memoization is
// the cache's job.
//
// The store holds a single profile row, so the builder takes no user
// identifier even though the cache above it is keyed by user.
type Builder struct {
	store Store
	cap   int
}

// NewBuilder creates a builder with the given tracking entry cap.
func NewBuilder(s Store, trackingCap int) *Builder {
	if trackingCap <= 0 {
		trackingCap = 10
	}
	return &Builder{store: s, cap: trackingCap}
}

// Build assembles a full context record: profile, derived week, and all
// five tracking categories. Returns nil without error when no profile
// row exists yet.
func (b *Builder) Build(ctx context.Context) (*Record, error) {
	record, err := b.fetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	for _, category := range TrackingCategories {
		if err := b.fetchCategory(ctx, category, record); err != nil {
			return nil, err
		}
	}
	record.LastUpdated = time.Now()
	return record, nil
}

// Refresh re-queries one category (or the profile, or everything) and
// splices the result into record, replacing the category wholesale.
func (b *Builder) Refresh(ctx context.Context, category Category, record *Record) error {
	if category == CategoryProfile || category == CategoryAll {
		fresh, err := b.fetchProfile(ctx)
		if err != nil {
			return err
		}
		if fresh != nil {
			record.CurrentWeek = fresh.CurrentWeek
			record.Location = fresh.Location
			record.Age = fresh.Age
			record.Weight = fresh.Weight
			record.DueDate = fresh.DueDate
			record.LMP = fresh.LMP
			record.CycleLength = fresh.CycleLength
			record.PeriodLength = fresh.PeriodLength
		}
		if category == CategoryProfile {
			return nil
		}
	}

	if category == CategoryAll {
		for _, c := range TrackingCategories {
			if err := b.fetchCategory(ctx, c, record); err != nil {
				return err
			}
		}
		return nil
	}
	return b.fetchCategory(ctx, category, record)
}

// fetchProfile returns a record populated with profile fields and the
// derived current week, or nil when no profile row exists.
func (b *Builder) fetchProfile(ctx context.Context) (*Record, error) {
	p, err := b.store.GetPregnancyProfile(ctx)
	if err != nil {
		return nil, berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query profile")
	}
	if p == nil {
		return nil, nil
	}
	return &Record{
		CurrentWeek:  currentWeek(p.DueDate, time.Now()),
		Location:     p.Location,
		Age:          p.Age,
		Weight:       p.Weight,
		DueDate:      p.DueDate,
		LMP:          p.LMP,
		CycleLength:  p.CycleLength,
		PeriodLength: p.PeriodLength,
	}, nil
}

func (b *Builder) fetchCategory(ctx context.Context, category Category, record *Record) error {
	find := &store.FindTrackingLog{Limit: &b.cap}
	switch category {
	case CategoryWeight:
		logs, err := b.store.ListWeightLogs(ctx, find)
		if err != nil {
			return berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query weight logs")
		}
		entries := make([]WeightEntry, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, WeightEntry{
				Week:   log.WeekNumber,
				Weight: log.Weight,
				Note:   log.Note,
				Date:   entryDate(log.CreatedTs),
			})
		}
		record.TrackingData.Weight = entries
	case CategoryMedicine:
		logs, err := b.store.ListMedicineLogs(ctx, find)
		if err != nil {
			return berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query medicine logs")
		}
		entries := make([]MedicineEntry, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, MedicineEntry{
				Week:  log.WeekNumber,
				Name:  log.Name,
				Dose:  log.Dose,
				Time:  log.Time,
				Taken: log.Taken,
				Note:  log.Note,
				Date:  entryDate(log.CreatedTs),
			})
		}
		record.TrackingData.Medicine = entries
	case CategorySymptoms:
		logs, err := b.store.ListSymptomLogs(ctx, find)
		if err != nil {
			return berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query symptom logs")
		}
		entries := make([]SymptomEntry, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, SymptomEntry{
				Week:    log.WeekNumber,
				Symptom: log.Symptom,
				Note:    log.Note,
				Date:    entryDate(log.CreatedTs),
			})
		}
		record.TrackingData.Symptoms = entries
	case CategoryBloodPressure:
		logs, err := b.store.ListBloodPressureLogs(ctx, find)
		if err != nil {
			return berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query blood pressure logs")
		}
		entries := make([]BloodPressureEntry, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, BloodPressureEntry{
				Week:      log.WeekNumber,
				Systolic:  log.Systolic,
				Diastolic: log.Diastolic,
				Time:      log.Time,
				Note:      log.Note,
				Date:      entryDate(log.CreatedTs),
			})
		}
		record.TrackingData.BloodPressure = entries
	case CategoryDischarge:
		logs, err := b.store.ListDischargeLogs(ctx, find)
		if err != nil {
			return berrors.Wrap(err, berrors.ErrCodeStoreUnavailable, "failed to query discharge logs")
		}
		entries := make([]DischargeEntry, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, DischargeEntry{
				Week:     log.WeekNumber,
				Type:     log.Type,
				Color:    log.Color,
				Bleeding: log.Bleeding,
				Note:     log.Note,
				Date:     entryDate(log.CreatedTs),
			})
		}
		record.TrackingData.Discharge = entries
	default:
		return berrors.Newf(berrors.ErrCodeInvalidArgument, "unknown tracking category %q", category)
	}
	return nil
}

// currentWeek derives the gestational week from the due date: week 40
// falls on the due date itself, clamped to [1, 40]. A missing due date
// pins the week at 1.
func currentWeek(dueDate *string, now time.Time) int {
	if dueDate == nil || *dueDate == "" {
		return 1
	}
	due, err := time.Parse(dueDateLayout, *dueDate)
	if err != nil {
		return 1
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysLeft := int(due.Sub(today).Hours() / 24)
	weeksLeft := daysLeft / 7
	if daysLeft < 0 && daysLeft%7 != 0 {
		// Floor division: a due date in the past rounds toward more
		// elapsed weeks, not fewer.
		weeksLeft--
	}
	week := pregnancyWeeks - weeksLeft
	if week < 1 {
		week = 1
	}
	if week > pregnancyWeeks {
		week = pregnancyWeeks
	}
	return week
}

func entryDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(entryTimeLayout)
}
