package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment. The set is closed;
// anything else is rejected on write and skipped by the aggregator.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is one of the three enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCancelled:
		return true
	}
	return false
}

// UpdateType selects the notification templates used by the workflow.
type UpdateType string

const (
	UpdateTypeSchedule UpdateType = "schedule"
	UpdateTypeCancel   UpdateType = "cancel"
)

// IsValid reports whether t is a known update type.
func (t UpdateType) IsValid() bool {
	return t == UpdateTypeSchedule || t == UpdateTypeCancel
}

// Patient carries the patient attributes consumed by notifications and the
// PDF summary export. Optional fields are zero-valued when absent.
type Patient struct {
	Name                   string    `json:"name"`
	Phone                  string    `json:"phone"`
	Email                  string    `json:"email"`
	Gender                 string    `json:"gender"`
	BirthDate              time.Time `json:"birth_date"`
	Address                string    `json:"address"`
	Occupation             string    `json:"occupation"`
	EmergencyContactName   string    `json:"emergency_contact_name"`
	EmergencyContactNumber string    `json:"emergency_contact_number"`
	PrimaryPhysician       string    `json:"primary_physician"`
	InsuranceProvider      string    `json:"insurance_provider"`
	InsurancePolicyNumber  string    `json:"insurance_policy_number"`
	Allergies              string    `json:"allergies"`
	CurrentMedication      string    `json:"current_medication"`
	FamilyMedicalHistory   string    `json:"family_medical_history"`
	PastMedicalHistory     string    `json:"past_medical_history"`
	IdentificationType     string    `json:"identification_type"`
	IdentificationNumber   string    `json:"identification_number"`
}

// Appointment is a stored appointment record. The store assigns ID and
// CreatedAt; everything else is caller-provided.
type Appointment struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Patient            Patient   `json:"patient"`
	Schedule           time.Time `json:"schedule"`
	Status             Status    `json:"status"`
	PrimaryPhysician   string    `json:"primary_physician"`
	Reason             string    `json:"reason"`
	Note               string    `json:"note,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateAppointmentRequest is the payload for creating an appointment.
type CreateAppointmentRequest struct {
	UserID           string    `json:"user_id"`
	Patient          Patient   `json:"patient"`
	Schedule         time.Time `json:"schedule"`
	Status           Status    `json:"status"`
	PrimaryPhysician string    `json:"primary_physician"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note"`
}

// Validate checks required fields and defaults the status to pending.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return ErrMissingReason
	}
	if r.Schedule.IsZero() {
		return ErrMissingSchedule
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Patch is a partial appointment update. Nil fields are left untouched.
type Patch struct {
	Schedule           *time.Time `json:"schedule,omitempty"`
	Status             *Status    `json:"status,omitempty"`
	PrimaryPhysician   *string    `json:"primary_physician,omitempty"`
	Reason             *string    `json:"reason,omitempty"`
	Note               *string    `json:"note,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
}

// UpdateAppointmentRequest drives the workflow's update path. Type chooses
// the notification templates; the workflow does not check that Patch.Status
// agrees with it, so a mismatched caller gets the template it asked for.
type UpdateAppointmentRequest struct {
	AppointmentID string     `json:"appointment_id"`
	UserID        string     `json:"user_id"`
	TimeZone      string     `json:"time_zone"`
	Type          UpdateType `json:"type"`
	Patch         Patch      `json:"appointment"`
}

// Validate checks the discriminator and target before any store call.
func (r *UpdateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.AppointmentID) == "" {
		return ErrMissingAppointmentID
	}
	if !r.Type.IsValid() {
		return ErrInvalidUpdateType
	}
	if r.Patch.Status != nil && !r.Patch.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
