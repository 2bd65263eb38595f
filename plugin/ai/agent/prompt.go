package agent

import (
	"fmt"
	"strings"

	"github.com/babynest/babynest/plugin/ai/contextcache"
)

const systemPrompt = `You are BabyNest, a calm and supportive pregnancy assistant. Answer using the provided user context and guidance snippets. Be concise and practical. You are not a doctor: for anything urgent or clinical, advise the user to contact their care provider.`

// buildPrompt renders the user's cached context and the retrieved
// guidance into a single completion prompt.
func buildPrompt(query, guidance string, record *contextcache.Record) string {
	var b strings.Builder

	b.WriteString("User context:\n")
	fmt.Fprintf(&b, "- Current pregnancy week: %d\n", record.CurrentWeek)
	if record.DueDate != nil {
		fmt.Fprintf(&b, "- Due date: %s\n", *record.DueDate)
	}
	if record.Age != nil {
		fmt.Fprintf(&b, "- Age: %d\n", *record.Age)
	}
	if record.Location != nil {
		fmt.Fprintf(&b, "- Location: %s\n", *record.Location)
	}
	if record.Weight != nil {
		fmt.Fprintf(&b, "- Pre-pregnancy weight: %.1f kg\n", *record.Weight)
	}

	if entries := record.TrackingData.Weight; len(entries) > 0 {
		b.WriteString("Recent weight logs:\n")
		for _, e := range entries {
			if e.Weight != nil {
				fmt.Fprintf(&b, "- Week %d: %.1f kg\n", e.Week, *e.Weight)
			}
		}
	}
	if entries := record.TrackingData.Symptoms; len(entries) > 0 {
		b.WriteString("Recent symptoms:\n")
		for _, e := range entries {
			if e.Symptom != nil {
				fmt.Fprintf(&b, "- Week %d: %s\n", e.Week, *e.Symptom)
			}
		}
	}
	if entries := record.TrackingData.BloodPressure; len(entries) > 0 {
		b.WriteString("Recent blood pressure readings:\n")
		for _, e := range entries {
			if e.Systolic != nil && e.Diastolic != nil {
				fmt.Fprintf(&b, "- Week %d: %d/%d\n", e.Week, *e.Systolic, *e.Diastolic)
			}
		}
	}

	b.WriteString("\nRelevant guidance:\n")
	b.WriteString(guidance)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	return b.String()
}
