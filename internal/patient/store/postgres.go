package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"uniagendas/internal/patient/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// PostgresStore persists patients in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const patientColumns = `id, full_name, cpf, phone, email, birth_date, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, p *models.Patient) error {
	if p == nil {
		return fmt.Errorf("patient is required")
	}
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID),
		p.FullName,
		p.CPF,
		p.Phone,
		p.Email,
		nullTime(p.BirthDate),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("patient cpf must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Patient) error {
	if p == nil {
		return fmt.Errorf("patient is required")
	}
	query := `
		UPDATE patients
		SET full_name = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID),
		p.FullName,
		p.Phone,
		p.Email,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update patient rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p, err := scanPatient(s.db.QueryRowContext(ctx, query, uuid.UUID(patientID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByCPF(ctx context.Context, cpf string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE cpf = $1`
	p, err := scanPatient(s.db.QueryRowContext(ctx, query, cpf))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient by cpf: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		ORDER BY full_name, id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]*models.Patient, 0, limit)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

type patientRow interface {
	Scan(dest ...any) error
}

func scanPatient(row patientRow) (*models.Patient, error) {
	var p models.Patient
	var patientID uuid.UUID
	var birthDate sql.NullTime
	if err := row.Scan(&patientID, &p.FullName, &p.CPF, &p.Phone, &p.Email, &birthDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.PatientID(patientID)
	if birthDate.Valid {
		b := birthDate.Time
		p.BirthDate = &b
	}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
