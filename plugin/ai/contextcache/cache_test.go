package contextcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babynest/babynest/store"
)

// fakeStore implements Store with in-memory rows and a query counter.
type fakeStore struct {
	profile       *store.PregnancyProfile
	weight        []*store.WeightLog
	medicine      []*store.MedicineLog
	symptoms      []*store.SymptomLog
	bloodPressure []*store.BloodPressureLog
	discharge     []*store.DischargeLog

	queries int
}

func capped[T any](list []T, find *store.FindTrackingLog) []T {
	if find != nil && find.Limit != nil && *find.Limit < len(list) {
		return list[:*find.Limit]
	}
	return list
}

func (f *fakeStore) GetPregnancyProfile(context.Context) (*store.PregnancyProfile, error) {
	f.queries++
	return f.profile, nil
}

func (f *fakeStore) ListWeightLogs(_ context.Context, find *store.FindTrackingLog) ([]*store.WeightLog, error) {
	f.queries++
	return capped(f.weight, find), nil
}

func (f *fakeStore) ListMedicineLogs(_ context.Context, find *store.FindTrackingLog) ([]*store.MedicineLog, error) {
	f.queries++
	return capped(f.medicine, find), nil
}

func (f *fakeStore) ListSymptomLogs(_ context.Context, find *store.FindTrackingLog) ([]*store.SymptomLog, error) {
	f.queries++
	return capped(f.symptoms, find), nil
}

func (f *fakeStore) ListBloodPressureLogs(_ context.Context, find *store.FindTrackingLog) ([]*store.BloodPressureLog, error) {
	f.queries++
	return capped(f.bloodPressure, find), nil
}

func (f *fakeStore) ListDischargeLogs(_ context.Context, find *store.FindTrackingLog) ([]*store.DischargeLog, error) {
	f.queries++
	return capped(f.discharge, find), nil
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func onboardedStore() *fakeStore {
	return &fakeStore{
		profile: &store.PregnancyProfile{
			LMP:          strPtr("2026-01-01"),
			CycleLength:  intPtr(28),
			PeriodLength: intPtr(5),
			Age:          intPtr(30),
			Weight:       floatPtr(62.5),
			Location:     strPtr("Berlin"),
			DueDate:      strPtr(time.Now().AddDate(0, 0, 70).Format(dueDateLayout)),
		},
		weight: []*store.WeightLog{
			{ID: 2, WeekNumber: 20, Weight: floatPtr(64), CreatedTs: 1700000100},
			{ID: 1, WeekNumber: 19, Weight: floatPtr(63.2), Note: strPtr("morning"), CreatedTs: 1700000000},
		},
		symptoms: []*store.SymptomLog{
			{ID: 1, WeekNumber: 20, Symptom: strPtr("nausea"), CreatedTs: 1700000200},
		},
	}
}

func newTestCache(t *testing.T, s Store, policy Policy) *Cache {
	t.Helper()
	c, err := New(s, t.TempDir(), policy)
	require.NoError(t, err)
	return c
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstGetBuildsOnceAndPopulatesBothTiers", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})

		record, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, record)
		// One profile query plus one per tracking category.
		assert.Equal(t, 6, fake.queries)
		assert.FileExists(t, c.filePath("default"))

		again, err := c.Get(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, record, again)
		assert.Equal(t, 6, fake.queries, "second get must not touch the store")
	})

	t.Run("NoProfileReturnsAbsence", func(t *testing.T) {
		fake := &fakeStore{}
		c := newTestCache(t, fake, Policy{})

		record, err := c.Get(ctx, "default")
		require.NoError(t, err)
		assert.Nil(t, record)
		assert.NoFileExists(t, c.filePath("default"))
	})

	t.Run("DiskRoundTripSurvivesRestart", func(t *testing.T) {
		dir := t.TempDir()
		fake := onboardedStore()

		c1, err := New(fake, dir, Policy{})
		require.NoError(t, err)
		before, err := c1.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, before)
		queriesAfterBuild := fake.queries

		// Fresh instance, cold memory tier, same directory.
		c2, err := New(fake, dir, Policy{})
		require.NoError(t, err)
		after, err := c2.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, after)
		assert.Equal(t, queriesAfterBuild, fake.queries, "restart get must be served from disk")
		assert.Equal(t, before.TrackingData, after.TrackingData)
		assert.Equal(t, before.CurrentWeek, after.CurrentWeek)
		assert.True(t, before.LastUpdated.Equal(after.LastUpdated))
	})

	t.Run("CorruptDiskFileRebuilds", func(t *testing.T) {
		dir := t.TempDir()
		fake := onboardedStore()
		c, err := New(fake, dir, Policy{})
		require.NoError(t, err)

		path := filepath.Join(dir, "context_default.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		record, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 6, fake.queries, "corrupt file must fall through to a rebuild")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "tracking_data", "rebuild must overwrite the corrupt file")
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("WeightUpdateTouchesOnlyWeightAndTimestamp", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})

		before, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, before)

		fake.weight = append([]*store.WeightLog{
			{ID: 3, WeekNumber: 21, Weight: floatPtr(64.8), CreatedTs: 1700000300},
		}, fake.weight...)
		// A mutated category the update was not named for must be ignored.
		fake.symptoms = append(fake.symptoms, &store.SymptomLog{ID: 2, WeekNumber: 21, Symptom: strPtr("fatigue"), CreatedTs: 1700000400})

		require.NoError(t, c.Update(ctx, "default", CategoryWeight, OperationCreate))

		after, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.Len(t, after.TrackingData.Weight, 3)
		assert.Equal(t, 21, after.TrackingData.Weight[0].Week)
		assert.True(t, after.LastUpdated.After(before.LastUpdated))

		assert.Equal(t, before.TrackingData.Symptoms, after.TrackingData.Symptoms)
		assert.Equal(t, before.TrackingData.Medicine, after.TrackingData.Medicine)
		assert.Equal(t, before.TrackingData.BloodPressure, after.TrackingData.BloodPressure)
		assert.Equal(t, before.TrackingData.Discharge, after.TrackingData.Discharge)
		assert.Equal(t, before.CurrentWeek, after.CurrentWeek)
		assert.Equal(t, before.DueDate, after.DueDate)
	})

	t.Run("Idempotent", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		_, err := c.Get(ctx, "default")
		require.NoError(t, err)

		require.NoError(t, c.Update(ctx, "default", CategoryWeight, OperationUpdate))
		once, err := c.Get(ctx, "default")
		require.NoError(t, err)

		require.NoError(t, c.Update(ctx, "default", CategoryWeight, OperationUpdate))
		twice, err := c.Get(ctx, "default")
		require.NoError(t, err)

		// Identical store state must yield an identical record modulo
		// the refresh timestamp.
		twice.LastUpdated = once.LastUpdated
		assert.Equal(t, once, twice)
	})

	t.Run("ProfileUpdateRecomputesCurrentWeek", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		before, err := c.Get(ctx, "default")
		require.NoError(t, err)

		fake.profile.DueDate = strPtr(time.Now().Format(dueDateLayout))
		require.NoError(t, c.Update(ctx, "default", CategoryProfile, OperationUpdate))

		after, err := c.Get(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, 40, after.CurrentWeek)
		assert.NotEqual(t, before.CurrentWeek, after.CurrentWeek)
	})

	t.Run("AllRefreshesEveryCategory", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		_, err := c.Get(ctx, "default")
		require.NoError(t, err)

		fake.symptoms = append(fake.symptoms, &store.SymptomLog{ID: 2, WeekNumber: 21, Symptom: strPtr("fatigue"), CreatedTs: 1700000400})
		fake.discharge = append(fake.discharge, &store.DischargeLog{ID: 1, WeekNumber: 21, Type: strPtr("normal"), CreatedTs: 1700000500})

		require.NoError(t, c.Update(ctx, "default", CategoryAll, OperationUpdate))
		after, err := c.Get(ctx, "default")
		require.NoError(t, err)
		assert.Len(t, after.TrackingData.Symptoms, 2)
		assert.Len(t, after.TrackingData.Discharge, 1)
	})

	t.Run("BootstrapBuildsFullRecord", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})

		// No prior get: the update has nothing to patch and builds from
		// scratch instead.
		require.NoError(t, c.Update(ctx, "default", CategoryWeight, OperationCreate))
		assert.Equal(t, 6, fake.queries)

		record, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 6, fake.queries)
	})

	t.Run("RejectsUnknownCategory", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		err := c.Update(ctx, "default", Category("mood"), OperationCreate)
		require.Error(t, err)
	})
}

func TestTrackingCap(t *testing.T) {
	ctx := context.Background()
	fake := onboardedStore()
	fake.weight = nil
	for week := 15; week >= 1; week-- {
		fake.weight = append(fake.weight, &store.WeightLog{
			ID:         int32(week),
			WeekNumber: week,
			Weight:     floatPtr(55 + float64(week)),
			CreatedTs:  1700000000 + int64(week),
		})
	}

	c := newTestCache(t, fake, Policy{MaxTrackingEntries: 10})
	record, err := c.Get(ctx, "default")
	require.NoError(t, err)
	require.Len(t, record.TrackingData.Weight, 10)
	assert.Equal(t, 15, record.TrackingData.Weight[0].Week)
	assert.Equal(t, 6, record.TrackingData.Weight[9].Week)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleUser", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		_, err := c.Get(ctx, "default")
		require.NoError(t, err)

		c.Invalidate("default")
		assert.NoFileExists(t, c.filePath("default"))

		// Next get rebuilds lazily.
		queries := fake.queries
		record, err := c.Get(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, queries+6, fake.queries)
	})

	t.Run("AllUsers", func(t *testing.T) {
		fake := onboardedStore()
		c := newTestCache(t, fake, Policy{})
		_, err := c.Get(ctx, "alice")
		require.NoError(t, err)
		_, err = c.Get(ctx, "bob")
		require.NoError(t, err)

		c.InvalidateAll()
		assert.NoFileExists(t, c.filePath("alice"))
		assert.NoFileExists(t, c.filePath("bob"))
		assert.Equal(t, 0, c.Stats().MemoryCacheSize)
	})
}

func TestMemoryTrim(t *testing.T) {
	ctx := context.Background()
	fake := onboardedStore()
	c := newTestCache(t, fake, Policy{MaxMemoryUsers: 2})

	// Updates bootstrap each user and run maintenance afterwards.
	require.NoError(t, c.Update(ctx, "oldest", CategoryAll, OperationCreate))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, c.Update(ctx, "middle", CategoryAll, OperationCreate))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, c.Update(ctx, "newest", CategoryAll, OperationCreate))

	c.mu.Lock()
	_, oldestResident := c.memory["oldest"]
	_, newestResident := c.memory["newest"]
	residents := len(c.memory)
	c.mu.Unlock()

	assert.False(t, oldestResident, "least recently updated user must be evicted")
	assert.True(t, newestResident)
	assert.Equal(t, 2, residents)

	// The evicted user is still served from disk without a rebuild.
	queries := fake.queries
	record, err := c.Get(ctx, "oldest")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, queries, fake.queries)
}

func TestFileSizeGuard(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Seed a record that accumulated far more medicine entries than the
	// configured cap, as left behind by a run with a larger cap.
	bloated := &Record{CurrentWeek: 20, LastUpdated: time.Now()}
	for i := 0; i < 40; i++ {
		bloated.TrackingData.Medicine = append(bloated.TrackingData.Medicine, MedicineEntry{
			Week: 20 - i%10,
			Name: strPtr("prenatal vitamin, one tablet with breakfast"),
			Dose: strPtr("400mg folic acid plus iron supplement"),
			Note: strPtr("taken with food to avoid nausea, as advised"),
			Date: "2026-05-01 08:00:00",
		})
	}
	data, err := json.MarshalIndent(bloated, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "context_default.json"), data, 0o644))
	require.Greater(t, int64(len(data)), int64(1024))

	fake := onboardedStore()
	c, err := New(fake, dir, Policy{MaxFileBytes: 1024, MaxTrackingEntries: 5})
	require.NoError(t, err)

	// The update rewrites the oversized record, and the size guard
	// truncates every category down to the cap.
	require.NoError(t, c.Update(ctx, "default", CategoryWeight, OperationCreate))

	record, err := c.Get(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.LessOrEqual(t, len(record.TrackingData.Medicine), 5)
	assert.LessOrEqual(t, len(record.TrackingData.Weight), 5)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	fake := onboardedStore()
	c := newTestCache(t, fake, Policy{})

	empty := c.Stats()
	assert.Equal(t, 0, empty.CacheFiles)
	assert.Nil(t, empty.OldestCacheFile)
	assert.Equal(t, 50, empty.MaxMemoryCacheSize)
	assert.Equal(t, 30, empty.MaxCacheAgeDays)

	_, err := c.Get(ctx, "default")
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 1, stats.MemoryCacheSize)
	assert.Equal(t, 1, stats.CacheFiles)
	assert.Greater(t, stats.TotalCacheSizeMB, 0.0)
	require.NotNil(t, stats.OldestCacheFile)
	assert.Equal(t, *stats.OldestCacheFile, *stats.NewestCacheFile)
}

func TestDiskSweep(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "context_stale.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))
	old := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	_, err := New(onboardedStore(), dir, Policy{})
	require.NoError(t, err)
	assert.NoFileExists(t, stale, "startup sweep must delete expired files")
}
