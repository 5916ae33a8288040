package appointments

import (
	"fmt"
	"time"
)

const displayTimeLayout = "Jan 2, 2006 - 3:04 PM"

// formatDateTime renders the schedule in the caller's time zone. Unknown or
// empty zones fall back to UTC rather than failing the update.
func formatDateTime(t time.Time, timeZone string) string {
	loc := time.UTC
	if timeZone != "" {
		if parsed, err := time.LoadLocation(timeZone); err == nil {
			loc = parsed
		}
	}
	return t.In(loc).Format(displayTimeLayout)
}

// notificationContent is the per-channel message text for one update.
type notificationContent struct {
	SMS          string
	EmailSubject string
	EmailHTML    string
}

// buildNotification selects the schedule or cancel templates. The two update
// types use disjoint wording: the schedule templates embed the physician, the
// cancel templates embed the cancellation reason verbatim.
func buildNotification(t UpdateType, clinicName, dateTime, physician, cancellationReason string) notificationContent {
	if t == UpdateTypeCancel {
		return notificationContent{
			SMS: fmt.Sprintf("Greetings from %s. Your appointment for %s is cancelled. Reason: %s",
				clinicName, dateTime, cancellationReason),
			EmailSubject: "Appointment Cancellation",
			EmailHTML: fmt.Sprintf(`<p>Dear Patient,</p>
<p>We regret to inform you that your appointment originally scheduled for:</p>
<p>📅 <strong>Date &amp; Time:</strong> %s</p>
<p>📝 <strong>Reason:</strong> %s</p>
<p>If you'd like to reschedule or need further assistance, please don't hesitate to reach out.</p>
<p>Kind regards,<br/>%s Support Team</p>`, dateTime, cancellationReason, clinicName),
		}
	}

	return notificationContent{
		SMS: fmt.Sprintf("Greetings from %s. Your appointment is confirmed for %s with Dr. %s.",
			clinicName, dateTime, physician),
		EmailSubject: "Appointment Confirmation",
		EmailHTML: fmt.Sprintf(`<p>Dear Patient,</p>
<p>This is a confirmation of your upcoming appointment scheduled for:</p>
<p>📅 <strong>Date &amp; Time:</strong> %s<br/>
👨‍⚕️ <strong>Physician:</strong> Dr. %s</p>
<p>Please arrive at least 10 minutes early and bring any relevant medical documents.</p>
<p>If you have any questions, feel free to contact us.</p>
<p>Kind regards,<br/>%s Support Team</p>`, dateTime, physician, clinicName),
	}
}
