package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ScheduleStatus
		to   ScheduleStatus
		want bool
	}{
		{"draft confirms", ScheduleStatusDraft, ScheduleStatusConfirmed, true},
		{"draft cannot complete", ScheduleStatusDraft, ScheduleStatusCompleted, false},
		{"draft cancels", ScheduleStatusDraft, ScheduleStatusCancelled, true},
		{"confirmed completes", ScheduleStatusConfirmed, ScheduleStatusCompleted, true},
		{"confirmed cancels", ScheduleStatusConfirmed, ScheduleStatusCancelled, true},
		{"confirmed cannot confirm again", ScheduleStatusConfirmed, ScheduleStatusConfirmed, false},
		{"completed cannot cancel", ScheduleStatusCompleted, ScheduleStatusCancelled, false},
		{"completed resets to draft", ScheduleStatusCompleted, ScheduleStatusDraft, true},
		{"cancelled resets to draft", ScheduleStatusCancelled, ScheduleStatusDraft, true},
		{"draft cannot reset to draft", ScheduleStatusDraft, ScheduleStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := Schedule{Status: tt.from}
			assert.Equal(t, tt.want, schedule.CanTransition(tt.to))
		})
	}
}
