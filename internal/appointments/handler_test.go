package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc, nil)

	r := chi.NewRouter()
	r.Post("/appointments", h.Create)
	r.Get("/appointments/{appointmentID}", h.Get)
	r.Patch("/appointments/{appointmentID}", h.Update)
	return r, svc
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{
		"user_id": "user-1",
		"patient": map[string]any{
			"name":  "Jane Doe",
			"phone": "+15551230000",
			"email": "jane@example.com",
		},
		"schedule":          time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"primary_physician": "Livingston",
		"reason":            "Annual checkup",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var appt Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusPending, appt.Status)
}

func TestHandlerCreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"schedule": time.Now().Format(time.RFC3339),
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGet(t *testing.T) {
	router, svc := newTestRouter(t)
	appt := seedAppointment(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/appointments/"+appt.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, "Jane Doe", got.Patient.Name)
}

func TestHandlerGetNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/appointments/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpdateSchedule(t *testing.T) {
	router, svc := newTestRouter(t)
	appt := seedAppointment(t, svc)

	payload, _ := json.Marshal(map[string]any{
		"user_id":   "user-1",
		"time_zone": "UTC",
		"type":      "schedule",
		"appointment": map[string]any{
			"status": "scheduled",
		},
	})
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appt.ID, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StatusScheduled, got.Status)

	stored, err := svc.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, stored.Status)
}

func TestHandlerUpdateUnknownType(t *testing.T) {
	router, svc := newTestRouter(t)
	appt := seedAppointment(t, svc)

	payload, _ := json.Marshal(map[string]any{
		"type":        "postpone",
		"appointment": map[string]any{"status": "scheduled"},
	})
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appt.ID, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"type":        "cancel",
		"appointment": map[string]any{"cancellation_reason": "sick"},
	})
	req := httptest.NewRequest(http.MethodPatch, "/appointments/missing", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
