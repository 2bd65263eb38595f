// Package agent answers natural-language pregnancy questions by
// combining the cached user context, intent-dispatched handlers,
// semantic guideline retrieval, and an LLM completion.
package agent

import (
	"context"
	"log/slog"
	"strings"

	berrors "github.com/babynest/babynest/internal/errors"
	"github.com/babynest/babynest/plugin/ai"
	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/plugin/ai/router"
	"github.com/babynest/babynest/store"
)

// profileMissingReply is returned for queries from users who have not
// completed onboarding. Absence is an expected state, not an error.
const profileMissingReply = "User profile not found. Please complete your profile setup first."

// offlineGuidance stands in for retrieval results when the vector
// index has nothing to offer.
const offlineGuidance = "Pregnancy-related health guidance snippets (offline)."

// ContextCache is the cache surface the agent consumes.
type ContextCache interface {
	Get(ctx context.Context, userID string) (*contextcache.Record, error)
	Update(ctx context.Context, userID string, category contextcache.Category, operation contextcache.Operation) error
	Invalidate(userID string)
	InvalidateAll()
	Stats() contextcache.Stats
	Cleanup()
}

// Retriever is the semantic search surface the agent consumes.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// LLM is the chat completion surface the agent consumes.
type LLM interface {
	Chat(ctx context.Context, messages []ai.Message) (string, error)
}

// AppointmentStore supplies the appointment rows the appointments
// handler reports on.
type AppointmentStore interface {
	ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error)
}

// Agent is the query-answering facade over the context cache.
type Agent struct {
	cache        ContextCache
	classifier   *router.Classifier
	retriever    Retriever
	llm          LLM
	appointments AppointmentStore
}

// New creates an agent. retriever and llm may be nil when AI is
// disabled; structured handlers still work from the cache alone.
func New(cache ContextCache, appointments AppointmentStore, retriever Retriever, llm LLM) *Agent {
	a := &Agent{
		cache:        cache,
		retriever:    retriever,
		llm:          llm,
		appointments: appointments,
	}
	a.classifier = router.NewClassifier(a.completer())
	return a
}

// Run answers a free-text query for the given user.
func (a *Agent) Run(ctx context.Context, query string, userID string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", berrors.New(berrors.ErrCodeInvalidArgument, "query must not be empty")
	}

	record, err := a.cache.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if record == nil {
		return profileMissingReply, nil
	}

	intent, confidence := a.classifier.Classify(ctx, query)
	slog.Debug("query classified", "intent", intent, "confidence", confidence)

	switch intent {
	case router.IntentAppointments:
		return a.handleAppointments(ctx, record)
	case router.IntentWeight:
		return a.handleWeight(record), nil
	case router.IntentSymptoms:
		return a.handleSymptoms(record), nil
	case router.IntentGuidelines:
		return a.handleGuidelines(ctx, query, record)
	}

	return a.complete(ctx, query, record)
}

// complete runs the retrieval plus LLM path for unclassified queries.
func (a *Agent) complete(ctx context.Context, query string, record *contextcache.Record) (string, error) {
	if a.llm == nil {
		return "", berrors.New(berrors.ErrCodeLLMUnavailable, "AI is not enabled")
	}

	guidance := a.retrieve(ctx, query)
	prompt := buildPrompt(query, guidance, record)
	answer, err := a.llm.Chat(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", berrors.Wrap(err, berrors.ErrCodeLLMUnavailable, "chat completion failed")
	}
	return answer, nil
}

// retrieve fetches guideline snippets, degrading to the offline
// fallback rather than failing the query.
func (a *Agent) retrieve(ctx context.Context, query string) string {
	if a.retriever == nil {
		return offlineGuidance
	}
	snippets, err := a.retriever.Search(ctx, query, 3)
	if err != nil {
		slog.Warn("guideline retrieval failed", "error", err)
		return offlineGuidance
	}
	if len(snippets) == 0 {
		return offlineGuidance
	}
	return strings.Join(snippets, "\n\n")
}

// Context returns the user's cached context record, building it on a
// miss. Returns nil when the user has no profile.
func (a *Agent) Context(ctx context.Context, userID string) (*contextcache.Record, error) {
	return a.cache.Get(ctx, userID)
}

// UpdateCache refreshes the named category of the user's cached context
// after a relational mutation.
func (a *Agent) UpdateCache(ctx context.Context, userID string, category contextcache.Category, operation contextcache.Operation) error {
	return a.cache.Update(ctx, userID, category, operation)
}

// InvalidateCache drops the user's cached context; "" drops every user.
func (a *Agent) InvalidateCache(userID string) {
	if userID == "" {
		a.cache.InvalidateAll()
		return
	}
	a.cache.Invalidate(userID)
}

// CacheStats reports cache occupancy for monitoring.
func (a *Agent) CacheStats() contextcache.Stats {
	return a.cache.Stats()
}

// CleanupCache triggers the cache janitor on demand.
func (a *Agent) CleanupCache() {
	a.cache.Cleanup()
}

// completer adapts the chat LLM to the classifier's completion
// interface. Returns nil when AI is disabled.
func (a *Agent) completer() router.LLMClient {
	if a.llm == nil {
		return nil
	}
	return &llmCompleter{llm: a.llm}
}

type llmCompleter struct {
	llm LLM
}

func (c *llmCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return c.llm.Chat(ctx, []ai.Message{{Role: "user", Content: prompt}})
}
