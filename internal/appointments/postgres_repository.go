package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the slice of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const appointmentColumns = `id, user_id, schedule, status, primary_physician, reason, note, cancellation_reason,
		patient_name, patient_phone, patient_email, patient_gender, patient_birth_date, patient_address, patient_occupation,
		emergency_contact_name, emergency_contact_number, patient_primary_physician, insurance_provider, insurance_policy_number,
		allergies, current_medication, family_medical_history, past_medical_history, identification_type, identification_number,
		created_at, updated_at`

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	pool db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool db) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO appointments (
			id, user_id, schedule, status, primary_physician, reason, note,
			patient_name, patient_phone, patient_email, patient_gender, patient_birth_date, patient_address, patient_occupation,
			emergency_contact_name, emergency_contact_number, patient_primary_physician, insurance_provider, insurance_policy_number,
			allergies, current_medication, family_medical_history, past_medical_history, identification_type, identification_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING created_at, updated_at
	`
	p := req.Patient
	var birthDate *time.Time
	if !p.BirthDate.IsZero() {
		birthDate = &p.BirthDate
	}

	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.UserID,
		req.Schedule,
		string(req.Status),
		req.PrimaryPhysician,
		req.Reason,
		req.Note,
		p.Name,
		p.Phone,
		p.Email,
		p.Gender,
		birthDate,
		p.Address,
		p.Occupation,
		p.EmergencyContactName,
		p.EmergencyContactNumber,
		p.PrimaryPhysician,
		p.InsuranceProvider,
		p.InsurancePolicyNumber,
		p.Allergies,
		p.CurrentMedication,
		p.FamilyMedicalHistory,
		p.PastMedicalHistory,
		p.IdentificationType,
		p.IdentificationNumber,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:               id.String(),
		UserID:           req.UserID,
		Patient:          req.Patient,
		Schedule:         req.Schedule,
		Status:           req.Status,
		PrimaryPhysician: req.PrimaryPhysician,
		Reason:           req.Reason,
		Note:             req.Note,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch Patch) (*Appointment, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Schedule != nil {
		add("schedule", *patch.Schedule)
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		add("status", string(*patch.Status))
	}
	if patch.PrimaryPhysician != nil {
		add("primary_physician", *patch.PrimaryPhysician)
	}
	if patch.Reason != nil {
		add("reason", *patch.Reason)
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}
	if patch.CancellationReason != nil {
		add("cancellation_reason", *patch.CancellationReason)
	}
	if len(sets) == 0 {
		return nil, ErrEmptyPatch
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE appointments SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), appointmentColumns)

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update failed: %w", err)
	}
	return appt, nil
}

// List returns appointments newest first, with the full table count.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, fmt.Errorf("appointments: count failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments ORDER BY created_at DESC, id DESC`, appointmentColumns)
	args := []any{}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	docs := make([]*Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		docs = append(docs, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}

	return &ListResult{Total: total, Documents: docs}, nil
}

// scanAppointment reads one row in appointmentColumns order.
func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var birthDate *time.Time
	if err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.Schedule,
		&appt.Status,
		&appt.PrimaryPhysician,
		&appt.Reason,
		&appt.Note,
		&appt.CancellationReason,
		&appt.Patient.Name,
		&appt.Patient.Phone,
		&appt.Patient.Email,
		&appt.Patient.Gender,
		&birthDate,
		&appt.Patient.Address,
		&appt.Patient.Occupation,
		&appt.Patient.EmergencyContactName,
		&appt.Patient.EmergencyContactNumber,
		&appt.Patient.PrimaryPhysician,
		&appt.Patient.InsuranceProvider,
		&appt.Patient.InsurancePolicyNumber,
		&appt.Patient.Allergies,
		&appt.Patient.CurrentMedication,
		&appt.Patient.FamilyMedicalHistory,
		&appt.Patient.PastMedicalHistory,
		&appt.Patient.IdentificationType,
		&appt.Patient.IdentificationNumber,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if birthDate != nil {
		appt.Patient.BirthDate = *birthDate
	}
	return &appt, nil
}

var _ Repository = (*PostgresRepository)(nil)
