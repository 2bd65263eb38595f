package router

import (
	"regexp"
	"strings"
)

// RuleMatcher is the first classification layer: weighted keyword
// scoring with zero latency, expected to place most tracking queries.
type RuleMatcher struct {
	appointmentKeywords map[string]int
	weightKeywords      map[string]int
	symptomKeywords     map[string]int
	guidelineKeywords   map[string]int
	datePatterns        []*regexp.Regexp
}

// NewRuleMatcher creates a rule matcher with predefined keyword weights.
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{
		// Core keywords weigh +2, supporting keywords +1.
		appointmentKeywords: map[string]int{
			"appointment": 2, "appointments": 2, "checkup": 2, "check-up": 2,
			"visit": 2, "ultrasound": 2, "scan": 2, "doctor": 2, "midwife": 2,
			"clinic": 1, "upcoming": 1, "scheduled": 1, "next": 1, "when": 1,
		},
		weightKeywords: map[string]int{
			"weight": 2, "weigh": 2, "kg": 2, "kilograms": 2, "pounds": 2,
			"gain": 1, "gained": 1, "lost": 1, "heavy": 1, "bmi": 1,
		},
		symptomKeywords: map[string]int{
			"symptom": 2, "symptoms": 2, "nausea": 2, "vomiting": 2,
			"cramp": 2, "cramps": 2, "cramping": 2, "swelling": 2,
			"headache": 2, "dizziness": 2, "fatigue": 2, "heartburn": 2,
			"feeling": 1, "felt": 1, "pain": 1, "tired": 1, "sick": 1,
		},
		guidelineKeywords: map[string]int{
			"guideline": 2, "guidelines": 2, "recommended": 2, "recommendation": 2,
			"safe": 2, "avoid": 2, "should i": 2, "can i": 2, "is it ok": 2,
			"normal": 1, "advice": 1, "diet": 1, "exercise": 1, "vitamins": 1,
		},
		datePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`),
			regexp.MustCompile(`(?i)\b(this|next|last)\s+(week|month)\b`),
			regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}\b`),
		},
	}
}

// Match attempts rule-based classification.
// Returns: intent, confidence, matched.
func (m *RuleMatcher) Match(input string) (Intent, float32, bool) {
	lower := strings.ToLower(input)

	scores := map[Intent]int{
		IntentAppointments: m.score(lower, m.appointmentKeywords),
		IntentWeight:       m.score(lower, m.weightKeywords),
		IntentSymptoms:     m.score(lower, m.symptomKeywords),
		IntentGuidelines:   m.score(lower, m.guidelineKeywords),
	}

	// A date reference strengthens appointment queries only when an
	// appointment keyword is already present.
	if scores[IntentAppointments] >= 2 && m.hasDatePattern(input) {
		scores[IntentAppointments] += 2
	}

	best, bestScore, runnerUp := IntentUnknown, 0, 0
	for intent, score := range scores {
		if score > bestScore {
			best, bestScore, runnerUp = intent, score, bestScore
		} else if score > runnerUp {
			runnerUp = score
		}
	}

	// Require a clear winner with at least one core keyword's worth of
	// signal; ties and weak matches fall through to the LLM layer.
	if bestScore < 2 || bestScore == runnerUp {
		return IntentUnknown, 0, false
	}

	confidence := float32(bestScore) / 6
	if confidence > 1 {
		confidence = 1
	}
	return best, confidence, true
}

func (m *RuleMatcher) score(input string, keywords map[string]int) int {
	total := 0
	for keyword, weight := range keywords {
		if strings.Contains(input, keyword) {
			total += weight
		}
	}
	return total
}

func (m *RuleMatcher) hasDatePattern(input string) bool {
	for _, pattern := range m.datePatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}
