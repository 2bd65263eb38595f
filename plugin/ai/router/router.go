// Package router classifies agent queries so that specialized handlers
// can answer structured questions without an LLM round trip.
package router

import (
	"context"
	"log/slog"
	"time"
)

// Intent is the classified purpose of a user query. Each intent except
// IntentUnknown maps to a dispatch handler in the agent.
type Intent string

const (
	IntentAppointments Intent = "appointments"
	IntentWeight       Intent = "weight"
	IntentSymptoms     Intent = "symptoms"
	IntentGuidelines   Intent = "guidelines"
	// IntentUnknown routes the query through semantic retrieval and a
	// free-form LLM completion instead of a handler.
	IntentUnknown Intent = "unknown"
)

// Classifier resolves query intent with rule-based matching first and
// an optional LLM fallback for inputs the rules cannot place.
type Classifier struct {
	rules *RuleMatcher
	llm   *LLMClassifier
}

// NewClassifier creates a classifier. client may be nil, in which case
// unmatched queries stay IntentUnknown.
func NewClassifier(client LLMClient) *Classifier {
	return &Classifier{
		rules: NewRuleMatcher(),
		llm:   NewLLMClassifier(client),
	}
}

// Classify returns the intent of input and a confidence in [0, 1].
func (c *Classifier) Classify(ctx context.Context, input string) (Intent, float32) {
	start := time.Now()

	intent, confidence, matched := c.rules.Match(input)
	if matched {
		slog.Debug("intent classified by rules",
			"intent", intent,
			"confidence", confidence,
			"latency_ms", time.Since(start).Milliseconds())
		return intent, confidence
	}

	result, err := c.llm.Classify(ctx, input)
	if err != nil {
		slog.Warn("LLM intent classification failed", "error", err)
		return IntentUnknown, 0
	}
	slog.Debug("intent classified by LLM",
		"intent", result.Intent,
		"confidence", result.Confidence,
		"latency_ms", time.Since(start).Milliseconds())
	return result.Intent, result.Confidence
}
