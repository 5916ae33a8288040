package appointments

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meditrack/meditrack-server/internal/notify"
	"github.com/meditrack/meditrack-server/internal/observability/metrics"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

var workflowTracer = otel.Tracer("meditrack.internal.appointments")

// AdminViewPath is the cached view invalidated after every mutation.
const AdminViewPath = "/admin"

// Dispatcher fans out patient notifications. A nil Message means the send
// did not happen; the workflow never treats that as a reason to fail.
type Dispatcher interface {
	SendSMS(ctx context.Context, to, body string) *notify.Message
	SendEmail(ctx context.Context, to, subject, html string) *notify.Message
}

// ViewInvalidator marks a cached server-rendered view as stale.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Service orchestrates the appointment workflow: store mutations, derived
// notification text, and the admin view invalidation signal.
type Service struct {
	repo       Repository
	dispatcher Dispatcher
	views      ViewInvalidator
	metrics    *metrics.AppointmentMetrics
	logger     *logging.Logger
	clinicName string
}

// NewService creates an appointment workflow service.
func NewService(repo Repository, dispatcher Dispatcher, views ViewInvalidator, m *metrics.AppointmentMetrics, logger *logging.Logger, clinicName string) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "MediTrack"
	}
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		views:      views,
		metrics:    m,
		logger:     logger,
		clinicName: clinicName,
	}
}

// Create inserts a new appointment and invalidates the admin view.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create appointment", "error", err)
		return nil, fmt.Errorf("appointments: create: %w", err)
	}

	s.metrics.ObserveCreated()
	s.invalidateAdminView(ctx)
	s.logger.Info("appointment created", "appointment_id", appt.ID, "status", appt.Status)
	return appt, nil
}

// Get fetches one appointment by ID.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// ListRecent returns every appointment newest first along with per-status
// counts for the admin dashboard.
type RecentAppointments struct {
	StatusCounts
	Documents []*Appointment `json:"documents"`
}

// ListRecent lists appointments in descending creation order and aggregates
// status counts in a single pass.
func (s *Service) ListRecent(ctx context.Context) (*RecentAppointments, error) {
	result, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		s.logger.Error("failed to list appointments", "error", err)
		return nil, fmt.Errorf("appointments: list: %w", err)
	}

	return &RecentAppointments{
		StatusCounts: CountByStatus(result.Total, result.Documents),
		Documents:    result.Documents,
	}, nil
}

// Update applies a partial update, notifies the patient over SMS and email
// concurrently, and invalidates the admin view. The record update is the
// source of truth: notification failures are logged, never rolled back, and
// never surfaced to the caller.
//
// Type only selects the message templates. It is not validated against
// Patch.Status, so a caller pairing type=cancel with an uncancelled status
// gets cancellation wording for a live appointment.
func (s *Service) Update(ctx context.Context, req *UpdateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := workflowTracer.Start(ctx, "appointments.update", trace.WithAttributes(
		attribute.String("meditrack.appointment_id", req.AppointmentID),
		attribute.String("meditrack.update_type", string(req.Type)),
	))
	defer span.End()

	updated, err := s.repo.Update(ctx, req.AppointmentID, req.Patch)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to update appointment", "error", err, "appointment_id", req.AppointmentID)
		return nil, err
	}

	dateTime := formatDateTime(updated.Schedule, req.TimeZone)
	content := buildNotification(req.Type, s.clinicName, dateTime, updated.PrimaryPhysician, updated.CancellationReason)

	if s.dispatcher != nil {
		// Both sends are issued before either is awaited; completion order
		// does not matter and neither result gates the response.
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.dispatcher.SendSMS(ctx, updated.Patient.Phone, content.SMS)
		}()
		go func() {
			defer wg.Done()
			s.dispatcher.SendEmail(ctx, updated.Patient.Email, content.EmailSubject, content.EmailHTML)
		}()
		wg.Wait()
	}

	s.metrics.ObserveUpdated(string(req.Type))
	s.invalidateAdminView(ctx)
	s.logger.Info("appointment updated",
		"appointment_id", updated.ID,
		"type", req.Type,
		"status", updated.Status,
		"user_id", req.UserID,
	)
	return updated, nil
}

func (s *Service) invalidateAdminView(ctx context.Context) {
	if s.views == nil {
		return
	}
	if err := s.views.Invalidate(ctx, AdminViewPath); err != nil {
		s.logger.Error("failed to invalidate admin view", "error", err)
	}
}
