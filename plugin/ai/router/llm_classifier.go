package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// LLMClient is the completion surface the classifier needs. It is
// satisfied by the ai provider's chat entry point wrapped in the agent.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMClassifier is the fallback layer for queries the rules cannot
// place.
type LLMClassifier struct {
	client              LLMClient
	confidenceThreshold float32
}

// NewLLMClassifier creates an LLM classifier. A nil client degrades to
// always returning IntentUnknown.
func NewLLMClassifier(client LLMClient) *LLMClassifier {
	return &LLMClassifier{
		client:              client,
		confidenceThreshold: 0.7,
	}
}

// ClassifyResult is the outcome of an LLM classification.
type ClassifyResult struct {
	Intent     Intent
	Confidence float32
	Reasoning  string
}

const classificationPrompt = `You are an intent classifier for a pregnancy tracking assistant. Analyze the user's question and pick one intent.

Available intents:
- appointments: questions about scheduled checkups, visits, or ultrasounds
- weight: questions about the user's weight history or weight gain
- symptoms: questions about symptoms the user has logged or is experiencing
- guidelines: questions seeking pregnancy guidance or recommendations
- unknown: anything that does not clearly fit the above

User question: %s

Respond with JSON only, using these fields:
- intent: one of the intents above
- confidence: a number between 0 and 1
- reasoning: one short sentence`

// Classify classifies input using the LLM.
func (c *LLMClassifier) Classify(ctx context.Context, input string) (*ClassifyResult, error) {
	if c.client == nil {
		return &ClassifyResult{Intent: IntentUnknown, Reasoning: "LLM client not configured"}, nil
	}

	response, err := c.client.Complete(ctx, fmt.Sprintf(classificationPrompt, input))
	if err != nil {
		return nil, errors.Wrap(err, "LLM classification failed")
	}

	result, err := parseClassifyResponse(response)
	if err != nil {
		return &ClassifyResult{
			Intent:     IntentUnknown,
			Confidence: 0.3,
			Reasoning:  "failed to parse LLM response: " + err.Error(),
		}, nil
	}

	if result.Confidence < c.confidenceThreshold {
		result.Intent = IntentUnknown
	}
	return result, nil
}

type classifyResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func parseClassifyResponse(response string) (*ClassifyResult, error) {
	response = strings.TrimSpace(response)
	// Strip a markdown code fence if the model added one.
	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimPrefix(response, "```")
		if idx := strings.LastIndex(response, "```"); idx >= 0 {
			response = response[:idx]
		}
		response = strings.TrimSpace(response)
	}

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, err
	}

	intent := Intent(parsed.Intent)
	switch intent {
	case IntentAppointments, IntentWeight, IntentSymptoms, IntentGuidelines, IntentUnknown:
	default:
		intent = IntentUnknown
	}

	return &ClassifyResult{
		Intent:     intent,
		Confidence: float32(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
	}, nil
}
