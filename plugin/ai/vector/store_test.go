package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babynest/babynest/store"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEmbedder) Embedding(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeDocStore struct {
	mu           sync.Mutex
	docs         map[string]*store.DocumentEmbedding
	appointments []*store.Appointment
	weights      []*store.WeightLog
	symptoms     []*store.SymptomLog
	searchResult []*store.DocumentEmbedding
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: map[string]*store.DocumentEmbedding{}}
}

func (f *fakeDocStore) UpsertDocumentEmbedding(_ context.Context, upsert *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[upsert.Collection+"/"+upsert.DocID] = upsert
	return upsert, nil
}

func (f *fakeDocStore) DeleteDocumentEmbeddings(_ context.Context, del *store.DeleteDocumentEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, doc := range f.docs {
		if doc.Collection == del.Collection && (del.DocID == nil || doc.DocID == *del.DocID) {
			delete(f.docs, key)
		}
	}
	return nil
}

func (f *fakeDocStore) SearchDocumentsByVector(_ context.Context, _ string, _ []float32, limit int) ([]*store.DocumentEmbedding, []float32, error) {
	docs := f.searchResult
	if limit < len(docs) {
		docs = docs[:limit]
	}
	scores := make([]float32, len(docs))
	return docs, scores, nil
}

func (f *fakeDocStore) ListAppointments(context.Context, *store.FindAppointment) ([]*store.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeDocStore) ListWeightLogs(context.Context, *store.FindTrackingLog) ([]*store.WeightLog, error) {
	return f.weights, nil
}

func (f *fakeDocStore) ListSymptomLogs(context.Context, *store.FindTrackingLog) ([]*store.SymptomLog, error) {
	return f.symptoms, nil
}

func (f *fakeDocStore) countCollection(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, doc := range f.docs {
		if doc.Collection == collection {
			n++
		}
	}
	return n
}

const guidelinesJSON = `[
	{"week_range": "1-12", "title": "Start folic acid supplementation", "priority": "high", "organization": ["WHO"], "purpose": "nutrition"},
	{"week_range": "13-27", "title": "Schedule the anomaly scan", "priority": "high", "organization": ["NHS", "WHO"], "purpose": "screening"},
	{"week_range": "28-40", "title": "Monitor fetal movements daily", "priority": "general", "purpose": "monitoring"}
]`

func writeGuidelines(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guidelines.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSyncGuidelines(t *testing.T) {
	ctx := context.Background()

	t.Run("EmbedsEveryGuideline", func(t *testing.T) {
		docs := newFakeDocStore()
		embedder := &fakeEmbedder{}
		s := NewStore(docs, embedder, writeGuidelines(t, guidelinesJSON))

		synced, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)
		assert.True(t, synced)
		assert.Equal(t, 3, docs.countCollection(store.CollectionGuidelines))
		assert.Equal(t, 3, embedder.calls)
		assert.FileExists(t, s.hashPath)

		doc := docs.docs[store.CollectionGuidelines+"/guideline_0"]
		require.NotNil(t, doc)
		assert.Equal(t, "Week 1-12: Start folic acid supplementation", doc.Content)
		assert.Equal(t, "WHO", doc.Source)
	})

	t.Run("UnchangedFileSkipsSync", func(t *testing.T) {
		docs := newFakeDocStore()
		embedder := &fakeEmbedder{}
		s := NewStore(docs, embedder, writeGuidelines(t, guidelinesJSON))

		_, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)
		callsAfterFirst := embedder.calls

		synced, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)
		assert.False(t, synced)
		assert.Equal(t, callsAfterFirst, embedder.calls)
	})

	t.Run("ChangedFileResyncs", func(t *testing.T) {
		docs := newFakeDocStore()
		embedder := &fakeEmbedder{}
		path := writeGuidelines(t, guidelinesJSON)
		s := NewStore(docs, embedder, path)

		_, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)

		updated := `[{"week_range": "1-12", "title": "Book the first antenatal visit"}]`
		require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

		synced, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)
		assert.True(t, synced)
		assert.Equal(t, 1, docs.countCollection(store.CollectionGuidelines))
	})

	t.Run("MissingOrganizationFallsBack", func(t *testing.T) {
		docs := newFakeDocStore()
		s := NewStore(docs, &fakeEmbedder{}, writeGuidelines(t, guidelinesJSON))
		_, err := s.SyncGuidelines(ctx)
		require.NoError(t, err)

		doc := docs.docs[store.CollectionGuidelines+"/guideline_2"]
		require.NotNil(t, doc)
		assert.Equal(t, "government_guidelines", doc.Source)
	})

	t.Run("MissingFile", func(t *testing.T) {
		s := NewStore(newFakeDocStore(), &fakeEmbedder{}, filepath.Join(t.TempDir(), "absent.json"))
		_, err := s.SyncGuidelines(ctx)
		require.Error(t, err)
	})
}

func TestRefreshUserDetails(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocStore()
	docs.appointments = []*store.Appointment{
		{Title: "Anomaly scan", Date: "2026-06-01", Time: strPtr("10:30"), Status: "scheduled"},
	}
	docs.weights = []*store.WeightLog{
		{WeekNumber: 20, Weight: floatPtr(64.5), Note: strPtr("stable")},
	}
	docs.symptoms = []*store.SymptomLog{
		{WeekNumber: 20, Symptom: strPtr("nausea")},
	}

	s := NewStore(docs, &fakeEmbedder{}, filepath.Join(t.TempDir(), "guidelines.json"))
	require.NoError(t, s.RefreshUserDetails(ctx))

	assert.Equal(t, 3, docs.countCollection(store.CollectionUserDetails))
	appt := docs.docs[store.CollectionUserDetails+"/appt_0"]
	require.NotNil(t, appt)
	assert.Equal(t, "Appointment: Anomaly scan on 2026-06-01 at 10:30 (Status: scheduled)", appt.Content)

	weight := docs.docs[store.CollectionUserDetails+"/weight_0"]
	require.NotNil(t, weight)
	assert.Equal(t, "Weight Log Week 20: 64.5kg. Note: stable", weight.Content)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocStore()
	for i := 0; i < 5; i++ {
		docs.searchResult = append(docs.searchResult, &store.DocumentEmbedding{
			Content: fmt.Sprintf("doc %d", i),
		})
	}

	s := NewStore(docs, &fakeEmbedder{}, filepath.Join(t.TempDir(), "guidelines.json"))
	contents, err := s.Search(ctx, "what should I eat", 3)
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, "doc 0", contents[0])
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
