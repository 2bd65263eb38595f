package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/store"
)

// The structured handlers answer from the cached context (or a single
// appointment query) without any LLM involvement, so common tracking
// questions cost nothing.

func (a *Agent) handleAppointments(ctx context.Context, record *contextcache.Record) (string, error) {
	appointments, err := a.appointments.ListAppointments(ctx, &store.FindAppointment{})
	if err != nil {
		return "", err
	}
	if len(appointments) == 0 {
		return "You have no appointments on record. You can add your next checkup from the appointments screen.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are in week %d. Your appointments:\n", record.CurrentWeek)
	for _, appt := range appointments {
		fmt.Fprintf(&b, "- %s on %s", appt.Title, appt.Date)
		if appt.Time != nil && *appt.Time != "" {
			fmt.Fprintf(&b, " at %s", *appt.Time)
		}
		fmt.Fprintf(&b, " (%s)\n", appt.Status)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (a *Agent) handleWeight(record *contextcache.Record) string {
	entries := record.TrackingData.Weight
	if len(entries) == 0 {
		return "You have no weight entries yet. Log your weight weekly to track your progress."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your recent weight entries (week %d of pregnancy):\n", record.CurrentWeek)
	for _, entry := range entries {
		fmt.Fprintf(&b, "- Week %d:", entry.Week)
		if entry.Weight != nil {
			fmt.Fprintf(&b, " %.1f kg", *entry.Weight)
		}
		if entry.Note != nil && *entry.Note != "" {
			fmt.Fprintf(&b, " (%s)", *entry.Note)
		}
		b.WriteString("\n")
	}
	if len(entries) >= 2 && entries[0].Weight != nil && entries[len(entries)-1].Weight != nil {
		diff := *entries[0].Weight - *entries[len(entries)-1].Weight
		fmt.Fprintf(&b, "Change across these entries: %+.1f kg", diff)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Agent) handleSymptoms(record *contextcache.Record) string {
	entries := record.TrackingData.Symptoms
	if len(entries) == 0 {
		return "You have no symptoms logged. If something feels off, log it so you can discuss it at your next checkup."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Symptoms you have logged (currently week %d):\n", record.CurrentWeek)
	for _, entry := range entries {
		fmt.Fprintf(&b, "- Week %d:", entry.Week)
		if entry.Symptom != nil {
			fmt.Fprintf(&b, " %s", *entry.Symptom)
		}
		if entry.Note != nil && *entry.Note != "" {
			fmt.Fprintf(&b, " (%s)", *entry.Note)
		}
		b.WriteString("\n")
	}
	b.WriteString("Mention persistent or severe symptoms to your care provider.")
	return b.String()
}

func (a *Agent) handleGuidelines(ctx context.Context, query string, record *contextcache.Record) (string, error) {
	guidance := a.retrieve(ctx, query)
	if a.llm == nil {
		// Without an LLM the raw snippets are still useful.
		return fmt.Sprintf("Guidance for week %d:\n%s", record.CurrentWeek, guidance), nil
	}
	return a.complete(ctx, query, record)
}
