package admintable

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/meditrack/meditrack-server/internal/appointments"
	"github.com/meditrack/meditrack-server/internal/observability/metrics"
	"github.com/meditrack/meditrack-server/internal/viewcache"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

// ListResponse is the admin table payload: status counts plus one rendered
// page.
type ListResponse struct {
	appointments.StatusCounts
	Page Page `json:"page"`
}

// Handler serves the paginated admin appointment table.
type Handler struct {
	service   *appointments.Service
	presenter *Presenter
	cache     viewcache.Cache
	metrics   *metrics.AppointmentMetrics
	logger    *logging.Logger
}

// NewHandler creates an admin table handler.
func NewHandler(service *appointments.Service, presenter *Presenter, cache viewcache.Cache, m *metrics.AppointmentMetrics, logger *logging.Logger) *Handler {
	if cache == nil {
		cache = viewcache.NoopCache{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		presenter: presenter,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// ListAppointments handles GET /admin/appointments requests. The underlying
// listing is cached under the admin view path and stays stale-free via the
// workflow's invalidation signal; pagination happens per request.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	pageIndex := 0
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 0 {
			pageIndex = page
		}
	}

	recent, err := h.loadRecent(r)
	if err != nil {
		h.logger.Error("failed to load admin appointment list", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	resp := ListResponse{
		StatusCounts: recent.StatusCounts,
		Page:         h.presenter.Render(recent.Documents, pageIndex),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) loadRecent(r *http.Request) (*appointments.RecentAppointments, error) {
	ctx := r.Context()

	if payload, err := h.cache.Get(ctx, appointments.AdminViewPath); err == nil {
		var cached appointments.RecentAppointments
		if err := json.Unmarshal(payload, &cached); err == nil {
			h.metrics.ObserveViewCache("hit")
			return &cached, nil
		}
		h.logger.Warn("discarding unreadable cached admin view", "error", err)
	} else if !errors.Is(err, viewcache.ErrMiss) {
		h.logger.Warn("admin view cache unavailable", "error", err)
	}

	h.metrics.ObserveViewCache("miss")
	recent, err := h.service.ListRecent(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(recent); err == nil {
		if err := h.cache.Set(ctx, appointments.AdminViewPath, payload); err != nil {
			h.logger.Warn("failed to cache admin view", "error", err)
		}
	}
	return recent, nil
}
