package appointments

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateTime(t *testing.T) {
	schedule := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timeZone string
		want     string
	}{
		{"utc", "UTC", "Mar 14, 2026 - 3:30 PM"},
		{"new york", "America/New_York", "Mar 14, 2026 - 11:30 AM"},
		{"empty falls back to UTC", "", "Mar 14, 2026 - 3:30 PM"},
		{"garbage falls back to UTC", "Atlantis/Nowhere", "Mar 14, 2026 - 3:30 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDateTime(schedule, tt.timeZone))
		})
	}
}

func TestBuildNotificationSchedule(t *testing.T) {
	content := buildNotification(UpdateTypeSchedule, "MediTrack", "Mar 14, 2026 - 3:30 PM", "Livingston", "")

	assert.Contains(t, content.SMS, "confirmed for Mar 14, 2026 - 3:30 PM")
	assert.Contains(t, content.SMS, "Dr. Livingston")
	assert.Equal(t, "Appointment Confirmation", content.EmailSubject)
	assert.Contains(t, content.EmailHTML, "Dr. Livingston")
	assert.Contains(t, content.EmailHTML, "MediTrack Support Team")
	assert.NotContains(t, content.EmailHTML, "cancelled")
}

func TestBuildNotificationCancel(t *testing.T) {
	reason := "physician unavailable on that date"
	content := buildNotification(UpdateTypeCancel, "MediTrack", "Mar 14, 2026 - 3:30 PM", "Livingston", reason)

	assert.Contains(t, content.SMS, "is cancelled")
	assert.Contains(t, content.SMS, "Reason: "+reason)
	assert.Equal(t, "Appointment Cancellation", content.EmailSubject)
	assert.Contains(t, content.EmailHTML, reason)
	assert.NotContains(t, content.EmailHTML, "Dr. Livingston")
}

func TestBuildNotificationTemplatesDisjoint(t *testing.T) {
	schedule := buildNotification(UpdateTypeSchedule, "MediTrack", "dt", "Smith", "r")
	cancel := buildNotification(UpdateTypeCancel, "MediTrack", "dt", "Smith", "r")

	assert.NotEqual(t, schedule.SMS, cancel.SMS)
	assert.NotEqual(t, schedule.EmailSubject, cancel.EmailSubject)
	assert.False(t, strings.Contains(schedule.SMS, "cancelled"))
	assert.False(t, strings.Contains(cancel.SMS, "confirmed"))
}
