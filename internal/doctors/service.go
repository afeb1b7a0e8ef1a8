// Package doctors serves the doctor directory: registration, lookup and
// proximity search.
package doctors

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/geo"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/repo"
	"github.com/carelink/server/internal/validate"
)

// Service composes the doctor store with the proximity filter
type Service struct {
	doctorRepo repo.DoctorRepo
}

// NewService creates a new doctor service
func NewService(doctorRepo repo.DoctorRepo) *Service {
	return &Service{doctorRepo: doctorRepo}
}

// Register stores a validated doctor. A taken email or phone surfaces as a
// *repo.ConstraintError wrapping errs.ErrConflict.
func (s *Service) Register(ctx context.Context, in validate.DoctorInput) (model.Doctor, error) {
	return s.doctorRepo.Create(ctx, model.Doctor{
		JobTitle:    in.JobTitle,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		IsAvailable: in.IsAvailable,
		Email:       in.Email,
		Phone:       in.Phone,
	})
}

// Get returns the doctor with the given id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, id)
}

// Nearby returns doctors strictly within maxMiles of the point, closest first.
// Availability is not considered.
func (s *Service) Nearby(ctx context.Context, lat, lon float64, maxMiles int) ([]model.NearbyDoctor, error) {
	if maxMiles <= 0 {
		return []model.NearbyDoctor{}, nil
	}

	all, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	return geo.Nearby(all, lat, lon, float64(maxMiles)), nil
}
