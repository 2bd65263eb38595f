package contextcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentWeek(t *testing.T) {
	now := time.Date(2026, 5, 15, 10, 30, 0, 0, time.UTC)
	day := func(offset int) *string {
		s := now.AddDate(0, 0, offset).Format(dueDateLayout)
		return &s
	}

	tests := []struct {
		name    string
		dueDate *string
		want    int
	}{
		{"NilDueDate", nil, 1},
		{"EmptyDueDate", strPtr(""), 1},
		{"MalformedDueDate", strPtr("15/05/2026"), 1},
		{"DueToday", day(0), 40},
		{"DueInOneWeek", day(7), 39},
		{"DueInSixDays", day(6), 40},
		{"DueInTenWeeks", day(70), 30},
		{"FullTermAhead", day(280), 1},
		{"BeyondFullTerm", day(350), 1},
		{"Overdue", day(-10), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, currentWeek(tt.dueDate, now))
		})
	}
}

func TestEntryDate(t *testing.T) {
	assert.Equal(t, "", entryDate(0))
	assert.Equal(t, "2023-11-14 22:13:20", entryDate(1700000000))
}

func TestRecordClone(t *testing.T) {
	original := &Record{
		CurrentWeek: 12,
		TrackingData: TrackingData{
			Weight: []WeightEntry{{Week: 12, Weight: floatPtr(60)}},
		},
		LastUpdated: time.Now(),
	}

	clone := original.Clone()
	clone.TrackingData.Weight[0].Week = 13
	clone.CurrentWeek = 14

	assert.Equal(t, 12, original.CurrentWeek)
	assert.Equal(t, 12, original.TrackingData.Weight[0].Week)
}

func TestRecordTruncate(t *testing.T) {
	record := &Record{}
	for i := 0; i < 12; i++ {
		record.TrackingData.Weight = append(record.TrackingData.Weight, WeightEntry{Week: 12 - i})
		record.TrackingData.Symptoms = append(record.TrackingData.Symptoms, SymptomEntry{Week: 12 - i})
	}

	assert.True(t, record.truncate(10))
	assert.Len(t, record.TrackingData.Weight, 10)
	assert.Len(t, record.TrackingData.Symptoms, 10)
	assert.Equal(t, 12, record.TrackingData.Weight[0].Week)

	assert.False(t, record.truncate(10))
}
