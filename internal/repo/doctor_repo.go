package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
)

// DoctorRepo defines the interface for doctor directory operations
type DoctorRepo interface {
	Create(ctx context.Context, doctor model.Doctor) (model.Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Doctor, error)
	List(ctx context.Context) ([]model.Doctor, error)
}

type doctorRepo struct {
	db *sql.DB
}

// NewDoctorRepo creates a new DoctorRepo instance
func NewDoctorRepo(db *sql.DB) DoctorRepo {
	return &doctorRepo{db: db}
}

// Create inserts a doctor; ID and CreatedAt of the argument are ignored and assigned by the store.
func (r *doctorRepo) Create(ctx context.Context, doctor model.Doctor) (model.Doctor, error) {
	query := `
		INSERT INTO doctors (job_title, latitude, longitude, is_available, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		doctor.JobTitle,
		doctor.Latitude,
		doctor.Longitude,
		doctor.IsAvailable,
		doctor.Email,
		doctor.Phone,
	).Scan(&doctor.ID, &doctor.CreatedAt)
	if err != nil {
		return model.Doctor{}, fmt.Errorf("failed to create doctor: %w", classify(err))
	}
	return doctor, nil
}

// GetByID retrieves a doctor by ID
func (r *doctorRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Doctor, error) {
	query := `
		SELECT id, job_title, latitude, longitude, is_available, email, phone, created_at
		FROM doctors
		WHERE id = $1
	`
	var d model.Doctor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.JobTitle, &d.Latitude, &d.Longitude, &d.IsAvailable, &d.Email, &d.Phone, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Doctor{}, fmt.Errorf("doctor: %w", errs.ErrNotFound)
		}
		return model.Doctor{}, fmt.Errorf("failed to query doctor: %w", err)
	}
	return d, nil
}

// List returns every doctor in insertion order
func (r *doctorRepo) List(ctx context.Context) ([]model.Doctor, error) {
	query := `
		SELECT id, job_title, latitude, longitude, is_available, email, phone, created_at
		FROM doctors
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]model.Doctor, 0)
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(
			&d.ID, &d.JobTitle, &d.Latitude, &d.Longitude, &d.IsAvailable, &d.Email, &d.Phone, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate doctors: %w", err)
	}
	return doctors, nil
}
