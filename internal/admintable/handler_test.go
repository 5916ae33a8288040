package admintable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-server/internal/appointments"
	"github.com/meditrack/meditrack-server/internal/viewcache"
)

// memoryCache is an in-process viewcache.Cache that counts lookups.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, path string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	payload, ok := c.entries[path]
	if !ok {
		return nil, viewcache.ErrMiss
	}
	c.hits++
	return payload, nil
}

func (c *memoryCache) Set(ctx context.Context, path string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = payload
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

func newTestHandler(t *testing.T, pageSize int) (*Handler, *appointments.Service, *memoryCache) {
	t.Helper()
	cache := newMemoryCache()
	svc := appointments.NewService(appointments.NewInMemoryRepository(), nil, cache, nil, nil, "MediTrack")
	h := NewHandler(svc, NewPresenter(DefaultColumns(), ExportAction(), pageSize), cache, nil, nil)
	return h, svc, cache
}

func seedAppointments(t *testing.T, svc *appointments.Service, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), &appointments.CreateAppointmentRequest{
			UserID:           fmt.Sprintf("user-%02d", i),
			Patient:          appointments.Patient{Name: fmt.Sprintf("Patient %02d", i), Phone: "+15551230000", Email: "p@example.com"},
			Schedule:         time.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			PrimaryPhysician: "Livingston",
			Reason:           "Checkup",
		})
		require.NoError(t, err)
	}
}

func doList(t *testing.T, h *Handler, url string) ListResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ListAppointments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListAppointmentsCountsAndPage(t *testing.T) {
	h, svc, _ := newTestHandler(t, 5)
	seedAppointments(t, svc, 7)

	resp := doList(t, h, "/admin/appointments")

	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 7, resp.Pending)
	assert.Equal(t, 0, resp.Scheduled)
	assert.Len(t, resp.Page.Rows, 5)
	assert.Equal(t, 2, resp.Page.PageCount)
	assert.True(t, resp.Page.CanNext)
}

func TestListAppointmentsSecondPage(t *testing.T) {
	h, svc, _ := newTestHandler(t, 5)
	seedAppointments(t, svc, 7)

	resp := doList(t, h, "/admin/appointments?page=1")

	assert.Len(t, resp.Page.Rows, 2)
	assert.Equal(t, 1, resp.Page.PageIndex)
	assert.True(t, resp.Page.CanPrev)
	assert.False(t, resp.Page.CanNext)
}

func TestListAppointmentsEmpty(t *testing.T) {
	h, _, _ := newTestHandler(t, 5)

	resp := doList(t, h, "/admin/appointments")

	assert.Equal(t, 0, resp.Total)
	require.NotNil(t, resp.Page.Placeholder)
	assert.Equal(t, "No results.", resp.Page.Placeholder.Text)
}

func TestListAppointmentsServedFromCache(t *testing.T) {
	h, svc, cache := newTestHandler(t, 5)
	seedAppointments(t, svc, 3)

	first := doList(t, h, "/admin/appointments")
	second := doList(t, h, "/admin/appointments")

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, cache.hits, "second request must be served from the cache")
}

func TestListAppointmentsCacheInvalidatedByWorkflow(t *testing.T) {
	h, svc, _ := newTestHandler(t, 5)
	seedAppointments(t, svc, 2)

	before := doList(t, h, "/admin/appointments")
	assert.Equal(t, 2, before.Total)

	// The create below raises the invalidation signal, so the next read
	// must not see the cached listing.
	seedAppointments(t, svc, 1)
	after := doList(t, h, "/admin/appointments")
	assert.Equal(t, 3, after.Total)
}

func TestListAppointmentsIgnoresMalformedPage(t *testing.T) {
	h, svc, _ := newTestHandler(t, 5)
	seedAppointments(t, svc, 7)

	resp := doList(t, h, "/admin/appointments?page=banana")

	assert.Equal(t, 0, resp.Page.PageIndex)
}
