package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"uniagendas/internal/doctor/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// PostgresStore persists doctors in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const doctorColumns = `id, full_name, specialty, crm, active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d *models.Doctor) error {
	if d == nil {
		return fmt.Errorf("doctor is required")
	}
	query := `
		INSERT INTO doctors (` + doctorColumns + `, specialty_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(d.ID),
		d.FullName,
		d.Specialty,
		d.CRM,
		d.Active,
		d.CreatedAt,
		d.UpdatedAt,
		models.SpecialtyKey(d.Specialty),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("doctor crm must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create doctor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, d *models.Doctor) error {
	if d == nil {
		return fmt.Errorf("doctor is required")
	}
	query := `
		UPDATE doctors
		SET full_name = $2, specialty = $3, specialty_key = $4, active = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(d.ID),
		d.FullName,
		d.Specialty,
		models.SpecialtyKey(d.Specialty),
		d.Active,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update doctor rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	d, err := scanDoctor(s.db.QueryRowContext(ctx, query, uuid.UUID(doctorID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find doctor by id: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListBySpecialty(ctx context.Context, specialty string, includeInactive bool) ([]*models.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE ($1 = '' OR specialty_key = $1)
		  AND (active OR $2)
		ORDER BY full_name, id
	`
	rows, err := s.db.QueryContext(ctx, query, models.SpecialtyKey(specialty), includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]*models.Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

type doctorRow interface {
	Scan(dest ...any) error
}

func scanDoctor(row doctorRow) (*models.Doctor, error) {
	var d models.Doctor
	var doctorID uuid.UUID
	if err := row.Scan(&doctorID, &d.FullName, &d.Specialty, &d.CRM, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DoctorID(doctorID)
	return &d, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
