package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meditrack/meditrack-server/internal/appointments"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

// Handler streams patient summary PDFs.
type Handler struct {
	service *appointments.Service
	logger  *logging.Logger
}

// NewHandler creates a PDF export handler.
func NewHandler(service *appointments.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Download handles GET /admin/appointments/{appointmentID}/summary.pdf and
// responds with the rendered document as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load appointment for export", "error", err, "appointment_id", id)
		http.Error(w, "failed to export summary", http.StatusInternalServerError)
		return
	}

	payload, err := Render(appt)
	if err != nil {
		h.logger.Error("failed to render summary", "error", err, "appointment_id", id)
		http.Error(w, "failed to export summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(appt.Patient.Name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	_, _ = w.Write(payload)
}
