// Package vector maintains the semantic document index: pregnancy
// guidelines loaded from a bundled JSON file plus per-user structured
// summaries, both embedded and stored through the relational driver.
package vector

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/babynest/babynest/store"
)

// embedConcurrency bounds parallel embedding requests so a guidelines
// sync does not overwhelm the API.
const embedConcurrency = 3

// Embedder produces an embedding vector for a text snippet.
type Embedder interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
}

// DocStore is the document surface the vector index needs from the
// relational store.
type DocStore interface {
	UpsertDocumentEmbedding(ctx context.Context, upsert *store.DocumentEmbedding) (*store.DocumentEmbedding, error)
	DeleteDocumentEmbeddings(ctx context.Context, delete *store.DeleteDocumentEmbedding) error
	SearchDocumentsByVector(ctx context.Context, collection string, embedding []float32, limit int) ([]*store.DocumentEmbedding, []float32, error)
	ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error)
	ListWeightLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.WeightLog, error)
	ListSymptomLogs(ctx context.Context, find *store.FindTrackingLog) ([]*store.SymptomLog, error)
}

// Guideline is one entry of the bundled guidelines file.
type Guideline struct {
	WeekRange    string   `json:"week_range"`
	Title        string   `json:"title"`
	Priority     string   `json:"priority"`
	Organization []string `json:"organization"`
	Purpose      string   `json:"purpose"`
}

// Store is the semantic document index.
type Store struct {
	docs           DocStore
	embedder       Embedder
	guidelinesPath string
	// hashPath marks the last synced guidelines file content so
	// unchanged files skip re-embedding.
	hashPath string
}

// NewStore creates a vector store. guidelinesPath points at the
// guidelines JSON file; the hash marker lives next to it.
func NewStore(docs DocStore, embedder Embedder, guidelinesPath string) *Store {
	return &Store{
		docs:           docs,
		embedder:       embedder,
		guidelinesPath: guidelinesPath,
		hashPath:       filepath.Join(filepath.Dir(guidelinesPath), "guidelines.hash"),
	}
}

// SyncGuidelines loads the guidelines file and (re)embeds it into the
// guidelines collection. Returns false without touching the index when
// the file content matches the recorded hash.
func (s *Store) SyncGuidelines(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(s.guidelinesPath)
	if err != nil {
		return false, errors.Wrap(err, "failed to read guidelines file")
	}

	sum := md5.Sum(data)
	currentHash := hex.EncodeToString(sum[:])
	if previous, err := os.ReadFile(s.hashPath); err == nil && strings.TrimSpace(string(previous)) == currentHash {
		slog.Debug("guidelines unchanged, skipping vector sync")
		return false, nil
	}

	var guidelines []Guideline
	if err := json.Unmarshal(data, &guidelines); err != nil {
		return false, errors.Wrap(err, "failed to parse guidelines file")
	}

	if err := s.docs.DeleteDocumentEmbeddings(ctx, &store.DeleteDocumentEmbedding{
		Collection: store.CollectionGuidelines,
	}); err != nil {
		return false, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, guideline := range guidelines {
		i, guideline := i, guideline
		g.Go(func() error {
			content := fmt.Sprintf("Week %s: %s", orUnknown(guideline.WeekRange), guideline.Title)
			embedding, err := s.embedder.Embedding(gctx, content)
			if err != nil {
				return errors.Wrapf(err, "failed to embed guideline %d", i)
			}
			_, err = s.docs.UpsertDocumentEmbedding(gctx, &store.DocumentEmbedding{
				DocID:      fmt.Sprintf("guideline_%d", i),
				Collection: store.CollectionGuidelines,
				Content:    content,
				Embedding:  embedding,
				Source:     guidelineSource(guideline),
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	if err := os.WriteFile(s.hashPath, []byte(currentHash), 0o644); err != nil {
		slog.Warn("failed to write guidelines hash marker", "error", err)
	}
	slog.Info("guidelines synced to vector store", "count", len(guidelines))
	return true, nil
}

// RefreshUserDetails re-embeds the user's structured data (appointments,
// weight logs, symptoms) into the user details collection so free-text
// queries can surface it.
func (s *Store) RefreshUserDetails(ctx context.Context) error {
	docs, err := s.formatUserDetails(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			embedding, err := s.embedder.Embedding(gctx, doc.Content)
			if err != nil {
				return errors.Wrapf(err, "failed to embed user detail %s", doc.DocID)
			}
			doc.Embedding = embedding
			_, err = s.docs.UpsertDocumentEmbedding(gctx, doc)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Debug("user details refreshed in vector store", "count", len(docs))
	return nil
}

// Search returns the contents of the most similar guideline documents.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}
	embedding, err := s.embedder.Embedding(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}
	docs, _, err := s.docs.SearchDocumentsByVector(ctx, store.CollectionGuidelines, embedding, limit)
	if err != nil {
		return nil, err
	}
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	return contents, nil
}

func (s *Store) formatUserDetails(ctx context.Context) ([]*store.DocumentEmbedding, error) {
	docs := []*store.DocumentEmbedding{}

	appointments, err := s.docs.ListAppointments(ctx, &store.FindAppointment{})
	if err != nil {
		return nil, err
	}
	for i, a := range appointments {
		timeOfDay := ""
		if a.Time != nil {
			timeOfDay = *a.Time
		}
		docs = append(docs, &store.DocumentEmbedding{
			DocID:      fmt.Sprintf("appt_%d", i),
			Collection: store.CollectionUserDetails,
			Content:    fmt.Sprintf("Appointment: %s on %s at %s (Status: %s)", a.Title, a.Date, timeOfDay, a.Status),
			Source:     "appointments",
		})
	}

	weights, err := s.docs.ListWeightLogs(ctx, &store.FindTrackingLog{})
	if err != nil {
		return nil, err
	}
	for i, w := range weights {
		docs = append(docs, &store.DocumentEmbedding{
			DocID:      fmt.Sprintf("weight_%d", i),
			Collection: store.CollectionUserDetails,
			Content:    fmt.Sprintf("Weight Log Week %d: %skg. Note: %s", w.WeekNumber, formatFloat(w.Weight), orEmpty(w.Note)),
			Source:     "weight_logs",
		})
	}

	symptoms, err := s.docs.ListSymptomLogs(ctx, &store.FindTrackingLog{})
	if err != nil {
		return nil, err
	}
	for i, sym := range symptoms {
		docs = append(docs, &store.DocumentEmbedding{
			DocID:      fmt.Sprintf("symptom_%d", i),
			Collection: store.CollectionUserDetails,
			Content:    fmt.Sprintf("Symptom Week %d: %s. Note: %s", sym.WeekNumber, orEmpty(sym.Symptom), orEmpty(sym.Note)),
			Source:     "symptoms",
		})
	}

	return docs, nil
}

func guidelineSource(g Guideline) string {
	if len(g.Organization) == 0 {
		return "government_guidelines"
	}
	return strings.Join(g.Organization, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *f), "0"), ".")
}
