package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-server/internal/appointments"
)

func fullAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:               "appt-1",
		Status:           appointments.StatusScheduled,
		Schedule:         time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC),
		PrimaryPhysician: "Livingston",
		Reason:           "Annual checkup",
		Patient: appointments.Patient{
			Name:      "Jane Doe",
			Phone:     "+15551230000",
			Email:     "jane@example.com",
			Gender:    "female",
			BirthDate: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
			Allergies: "Penicillin",
		},
	}
}

func TestSummarySectionOrder(t *testing.T) {
	sections := Summary(fullAppointment())

	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Personal Information",
		"Emergency & Insurance",
		"Medical History",
		"Identification",
		"Appointment Details",
	}, titles)
}

func TestSummaryFallbacks(t *testing.T) {
	appt := &appointments.Appointment{
		Status:   appointments.StatusPending,
		Schedule: time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC),
		Reason:   "Follow-up",
		Patient:  appointments.Patient{Name: "Jane Doe"},
	}

	sections := Summary(appt)

	personal := sections[0]
	assert.Contains(t, personal.Lines, "Full Name: Jane Doe")
	assert.Contains(t, personal.Lines, "Phone: N/A")
	assert.Contains(t, personal.Lines, "Date of Birth: N/A")

	medical := sections[2]
	assert.Equal(t, []string{
		"Allergies: None",
		"Current Medication: None",
		"Family History: None",
		"Past Medical History: None",
	}, medical.Lines)

	details := sections[4]
	assert.Contains(t, details.Lines, "Doctor: N/A")
	assert.Contains(t, details.Lines, "Status: pending")
	assert.Contains(t, details.Lines, "Note: N/A")
}

func TestSummaryOrderStableWhenSparse(t *testing.T) {
	sparse := Summary(&appointments.Appointment{Status: appointments.StatusPending})
	full := Summary(fullAppointment())

	require.Len(t, sparse, len(full))
	for i := range full {
		assert.Equal(t, full[i].Title, sparse[i].Title)
		assert.Len(t, sparse[i].Lines, len(full[i].Lines))
	}
}

func TestRenderProducesPDF(t *testing.T) {
	payload, err := Render(fullAppointment())

	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "jane_doe_summary.pdf", Filename("Jane Doe"))
	assert.Equal(t, "jane_van_der_berg_summary.pdf", Filename("Jane  van\tder Berg"))
	assert.Equal(t, "patient_summary.pdf", Filename(""))
	assert.Equal(t, "patient_summary.pdf", Filename("   "))
}

func newExportRouter(t *testing.T) (http.Handler, *appointments.Service) {
	t.Helper()
	svc := appointments.NewService(appointments.NewInMemoryRepository(), nil, nil, nil, nil, "MediTrack")
	h := NewHandler(svc, nil)

	r := chi.NewRouter()
	r.Get("/admin/appointments/{appointmentID}/summary.pdf", h.Download)
	return r, svc
}

func TestDownload(t *testing.T) {
	router, svc := newExportRouter(t)
	appt, err := svc.Create(context.Background(), &appointments.CreateAppointmentRequest{
		UserID:           "user-1",
		Patient:          appointments.Patient{Name: "Jane Doe"},
		Schedule:         time.Now().Add(48 * time.Hour),
		PrimaryPhysician: "Livingston",
		Reason:           "Annual checkup",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments/"+appt.ID+"/summary.pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="jane_doe_summary.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestDownloadNotFound(t *testing.T) {
	router, _ := newExportRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments/missing/summary.pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
