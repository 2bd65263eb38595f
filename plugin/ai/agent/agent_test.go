package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "github.com/babynest/babynest/internal/errors"
	"github.com/babynest/babynest/plugin/ai"
	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/store"
)

type fakeCache struct {
	record      *contextcache.Record
	getErr      error
	updates     []contextcache.Category
	invalidated []string
	cleanedUp   bool
}

func (f *fakeCache) Get(context.Context, string) (*contextcache.Record, error) {
	return f.record, f.getErr
}

func (f *fakeCache) Update(_ context.Context, _ string, category contextcache.Category, _ contextcache.Operation) error {
	f.updates = append(f.updates, category)
	return nil
}

func (f *fakeCache) Invalidate(userID string) { f.invalidated = append(f.invalidated, userID) }
func (f *fakeCache) InvalidateAll()           { f.invalidated = append(f.invalidated, "*") }
func (f *fakeCache) Stats() contextcache.Stats {
	return contextcache.Stats{MemoryCacheSize: 7}
}
func (f *fakeCache) Cleanup() { f.cleanedUp = true }

type fakeRetriever struct {
	snippets []string
	err      error
}

func (f *fakeRetriever) Search(context.Context, string, int) ([]string, error) {
	return f.snippets, f.err
}

type fakeLLM struct {
	reply    string
	err      error
	calls    int
	lastUser string
}

func (f *fakeLLM) Chat(_ context.Context, messages []ai.Message) (string, error) {
	f.calls++
	f.lastUser = messages[len(messages)-1].Content
	return f.reply, f.err
}

type fakeAppointments struct {
	list []*store.Appointment
	err  error
}

func (f *fakeAppointments) ListAppointments(context.Context, *store.FindAppointment) ([]*store.Appointment, error) {
	return f.list, f.err
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func onboardedRecord() *contextcache.Record {
	return &contextcache.Record{
		CurrentWeek: 22,
		Age:         intPtr(31),
		DueDate:     strPtr("2026-12-01"),
		Location:    strPtr("Oslo"),
		TrackingData: contextcache.TrackingData{
			Weight: []contextcache.WeightEntry{
				{Week: 22, Weight: floatPtr(66.2)},
				{Week: 21, Weight: floatPtr(65.4), Note: strPtr("after breakfast")},
			},
			Symptoms: []contextcache.SymptomEntry{
				{Week: 22, Symptom: strPtr("heartburn")},
			},
		},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyQuery", func(t *testing.T) {
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, nil, nil)
		_, err := a.Run(ctx, "   ", "default")
		require.Error(t, err)
		assert.True(t, berrors.IsCode(err, berrors.ErrCodeInvalidArgument))
	})

	t.Run("MissingProfile", func(t *testing.T) {
		a := New(&fakeCache{}, &fakeAppointments{}, nil, nil)
		reply, err := a.Run(ctx, "how am I doing?", "default")
		require.NoError(t, err)
		assert.Equal(t, profileMissingReply, reply)
	})

	t.Run("CacheErrorPropagates", func(t *testing.T) {
		cache := &fakeCache{getErr: berrors.New(berrors.ErrCodeStoreUnavailable, "db down")}
		a := New(cache, &fakeAppointments{}, nil, nil)
		_, err := a.Run(ctx, "hello", "default")
		require.Error(t, err)
		assert.True(t, berrors.IsCode(err, berrors.ErrCodeStoreUnavailable))
	})

	t.Run("AppointmentsIntent", func(t *testing.T) {
		llm := &fakeLLM{reply: "should not be used"}
		appts := &fakeAppointments{list: []*store.Appointment{
			{Title: "Anomaly scan", Date: "2026-09-10", Time: strPtr("09:00"), Status: "scheduled"},
		}}
		a := New(&fakeCache{record: onboardedRecord()}, appts, nil, llm)

		reply, err := a.Run(ctx, "When is my next checkup appointment?", "default")
		require.NoError(t, err)
		assert.Contains(t, reply, "week 22")
		assert.Contains(t, reply, "Anomaly scan on 2026-09-10 at 09:00")
		assert.Equal(t, 0, llm.calls)
	})

	t.Run("AppointmentsIntentEmpty", func(t *testing.T) {
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, nil, nil)
		reply, err := a.Run(ctx, "When is my next checkup appointment?", "default")
		require.NoError(t, err)
		assert.Contains(t, reply, "no appointments")
	})

	t.Run("WeightIntent", func(t *testing.T) {
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, nil, nil)
		reply, err := a.Run(ctx, "How much weight have I gained in kg?", "default")
		require.NoError(t, err)
		assert.Contains(t, reply, "Week 22: 66.2 kg")
		assert.Contains(t, reply, "+0.8 kg")
	})

	t.Run("SymptomsIntent", func(t *testing.T) {
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, nil, nil)
		reply, err := a.Run(ctx, "I have been having nausea and cramps", "default")
		require.NoError(t, err)
		assert.Contains(t, reply, "heartburn")
	})

	t.Run("GuidelinesIntentWithoutLLM", func(t *testing.T) {
		retriever := &fakeRetriever{snippets: []string{"Week 13-27: Schedule the anomaly scan"}}
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, retriever, nil)

		reply, err := a.Run(ctx, "is it safe to travel, what do the guidelines say?", "default")
		require.NoError(t, err)
		assert.Contains(t, reply, "anomaly scan")
	})

	t.Run("UnknownIntentRunsRetrievalAndLLM", func(t *testing.T) {
		retriever := &fakeRetriever{snippets: []string{"Iron-rich foods help in the second trimester."}}
		llm := &fakeLLM{reply: "Here is a gentle answer."}
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, retriever, llm)

		reply, err := a.Run(ctx, "tell me about my pregnancy progress overall", "default")
		require.NoError(t, err)
		assert.Equal(t, "Here is a gentle answer.", reply)
		// Prompt carries the cached context and the retrieved guidance.
		assert.Contains(t, llm.lastUser, "Current pregnancy week: 22")
		assert.Contains(t, llm.lastUser, "Iron-rich foods")
		assert.Contains(t, llm.lastUser, "tell me about my pregnancy progress overall")
	})

	t.Run("RetrievalFailureDegradesToOfflineGuidance", func(t *testing.T) {
		retriever := &fakeRetriever{err: errors.New("index gone")}
		llm := &fakeLLM{reply: "ok"}
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, retriever, llm)

		_, err := a.Run(ctx, "tell me about my pregnancy progress overall", "default")
		require.NoError(t, err)
		assert.Contains(t, llm.lastUser, offlineGuidance)
	})

	t.Run("UnknownIntentWithoutLLM", func(t *testing.T) {
		a := New(&fakeCache{record: onboardedRecord()}, &fakeAppointments{}, nil, nil)
		_, err := a.Run(ctx, "tell me about my pregnancy progress overall", "default")
		require.Error(t, err)
		assert.True(t, berrors.IsCode(err, berrors.ErrCodeLLMUnavailable))
	})
}

func TestCachePassthroughs(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{record: onboardedRecord()}
	a := New(cache, &fakeAppointments{}, nil, nil)

	require.NoError(t, a.UpdateCache(ctx, "default", contextcache.CategoryWeight, contextcache.OperationCreate))
	assert.Equal(t, []contextcache.Category{contextcache.CategoryWeight}, cache.updates)

	a.InvalidateCache("default")
	a.InvalidateCache("")
	assert.Equal(t, []string{"default", "*"}, cache.invalidated)

	assert.Equal(t, 7, a.CacheStats().MemoryCacheSize)

	a.CleanupCache()
	assert.True(t, cache.cleanedUp)
}
