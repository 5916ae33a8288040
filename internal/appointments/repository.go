package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a listing. A zero Limit returns everything.
type ListFilter struct {
	Limit  int
	Offset int
}

// ListResult is a page of appointments plus the store's full count,
// ordered by creation time descending.
type ListResult struct {
	Total     int            `json:"total"`
	Documents []*Appointment `json:"documents"`
}

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, id string, patch Patch) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and when
// no database is configured.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appointments: make(map[string]*Appointment),
	}
}

// Create stores a new appointment with a generated ID.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appt := &Appointment{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		Patient:          req.Patient,
		Schedule:         req.Schedule,
		Status:           req.Status,
		PrimaryPhysician: req.PrimaryPhysician,
		Reason:           req.Reason,
		Note:             req.Note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.mu.Lock()
	r.appointments[appt.ID] = appt
	r.mu.Unlock()

	copied := *appt
	return &copied, nil
}

// GetByID fetches one appointment.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

// Update applies a partial update and returns the updated record.
func (r *InMemoryRepository) Update(ctx context.Context, id string, patch Patch) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Schedule != nil {
		appt.Schedule = *patch.Schedule
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		appt.Status = *patch.Status
	}
	if patch.PrimaryPhysician != nil {
		appt.PrimaryPhysician = *patch.PrimaryPhysician
	}
	if patch.Reason != nil {
		appt.Reason = *patch.Reason
	}
	if patch.Note != nil {
		appt.Note = *patch.Note
	}
	if patch.CancellationReason != nil {
		appt.CancellationReason = *patch.CancellationReason
	}
	appt.UpdatedAt = time.Now().UTC()

	copied := *appt
	return &copied, nil
}

// List returns appointments ordered by creation time descending.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	r.mu.RLock()
	docs := make([]*Appointment, 0, len(r.appointments))
	for _, appt := range r.appointments {
		copied := *appt
		docs = append(docs, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	total := len(docs)
	if filter.Offset > 0 {
		if filter.Offset >= len(docs) {
			docs = nil
		} else {
			docs = docs[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(docs) > filter.Limit {
		docs = docs[:filter.Limit]
	}

	return &ListResult{Total: total, Documents: docs}, nil
}

var _ Repository = (*InMemoryRepository)(nil)
