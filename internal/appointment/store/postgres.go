package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"uniagendas/internal/appointment/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// PostgresStore persists appointments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const appointmentColumns = `id, protocol, patient_id, doctor_id, scheduled_at, duration_minutes, type, status,
	location, notes, authorization_protocol, attendance_protocol, confirmation_receipt, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, a *models.Appointment) error {
	if a == nil {
		return fmt.Errorf("appointment is required")
	}
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		a.Protocol,
		uuid.UUID(a.PatientID),
		uuid.UUID(a.DoctorID),
		a.ScheduledAt,
		a.DurationMinutes,
		string(a.Type),
		string(a.Status),
		a.Location,
		a.Notes,
		nullString(a.AuthorizationProtocol),
		nullString(a.AttendanceProtocol),
		nullString(a.ConfirmationReceipt),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("appointment protocol must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// UpdateIfStatus compares the stored status inside the UPDATE so two
// instances racing on the same appointment cannot both win.
func (s *PostgresStore) UpdateIfStatus(ctx context.Context, a *models.Appointment, from models.Status) error {
	if a == nil {
		return fmt.Errorf("appointment is required")
	}
	query := `
		UPDATE appointments
		SET scheduled_at = $3, duration_minutes = $4, status = $5, location = $6, notes = $7,
			attendance_protocol = $8, confirmation_receipt = $9, updated_at = $10
		WHERE id = $1 AND status = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		string(from),
		a.ScheduledAt,
		a.DurationMinutes,
		string(a.Status),
		a.Location,
		a.Notes,
		nullString(a.AttendanceProtocol),
		nullString(a.ConfirmationReceipt),
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("appointment protocol must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, uuid.UUID(a.ID)).Scan(&exists); err != nil {
		return fmt.Errorf("check appointment: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("appointment status is no longer %s: %w", from, sentinel.ErrConflict)
}

func (s *PostgresStore) FindByID(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(s.db.QueryRowContext(ctx, query, uuid.UUID(appointmentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find appointment by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindByProtocol(ctx context.Context, code string) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE protocol = $1`
	a, err := scanAppointment(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find appointment by protocol: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientID id.PatientID) ([]*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY scheduled_at, id
	`
	return s.query(ctx, query, uuid.UUID(patientID))
}

func (s *PostgresStore) ListByDoctor(ctx context.Context, doctorID id.DoctorID, from, to time.Time) ([]*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND ($2::timestamptz IS NULL OR scheduled_at >= $2)
		  AND ($3::timestamptz IS NULL OR scheduled_at < $3)
		ORDER BY scheduled_at, id
	`
	return s.query(ctx, query, uuid.UUID(doctorID), nullBound(from), nullBound(to))
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]*models.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

type appointmentRow interface {
	Scan(dest ...any) error
}

func scanAppointment(row appointmentRow) (*models.Appointment, error) {
	var a models.Appointment
	var appointmentID, patientID, doctorID uuid.UUID
	var apptType, status string
	var authorization, attendance, receipt sql.NullString
	err := row.Scan(
		&appointmentID, &a.Protocol, &patientID, &doctorID, &a.ScheduledAt, &a.DurationMinutes, &apptType, &status,
		&a.Location, &a.Notes, &authorization, &attendance, &receipt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.AppointmentID(appointmentID)
	a.PatientID = id.PatientID(patientID)
	a.DoctorID = id.DoctorID(doctorID)
	a.Type = models.Type(apptType)
	a.Status = models.Status(status)
	a.AuthorizationProtocol = authorization.String
	a.AttendanceProtocol = attendance.String
	a.ConfirmationReceipt = receipt.String
	a.ScheduledAt = a.ScheduledAt.UTC()
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBound(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
