package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type citizenService struct {
	citizens  ports.CitizenRepository
	districts ports.DistrictRepository
	images    ports.ReferenceImageStore
	options
}

func NewCitizenService(citizens ports.CitizenRepository, districts ports.DistrictRepository, images ports.ReferenceImageStore, opts ...Option) ports.CitizenService {
	return &citizenService{
		citizens:  citizens,
		districts: districts,
		images:    images,
		options:   newOptions(opts),
	}
}

// Register stores the reference face image before the citizen row, so a
// registered citizen can always be verified. The image is removed again when
// the citizen row is rejected.
func (s *citizenService) Register(ctx context.Context, input ports.RegisterCitizenInput) (*domain.Citizen, error) {
	var violations []string
	nid := strings.TrimSpace(input.NID)
	name := strings.TrimSpace(input.Name)
	if nid == "" {
		violations = append(violations, "nid is required")
	}
	if name == "" {
		violations = append(violations, "name is required")
	}
	if input.DistrictID == uuid.Nil {
		violations = append(violations, "district is required")
	}
	if len(input.FaceImage) == 0 {
		violations = append(violations, "face image is required")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	if _, err := s.districts.GetByID(ctx, input.DistrictID); err != nil {
		return nil, err
	}

	citizen := &domain.Citizen{
		ID:         uuid.New(),
		NID:        nid,
		Name:       name,
		DistrictID: input.DistrictID,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.images.Save(ctx, citizen.ID, input.FaceImage); err != nil {
		return nil, fmt.Errorf("failed to store reference image: %w", err)
	}
	if err := s.citizens.Create(ctx, citizen); err != nil {
		if derr := s.images.Delete(ctx, citizen.ID); derr != nil {
			s.logger.Warn("failed to remove reference image",
				"event", "reference_image_orphaned",
				"module", "election/citizen",
				"layer", "service",
				"citizen_id", citizen.ID,
				"error", derr,
			)
		}
		return nil, err
	}

	s.logger.Info("citizen registered",
		"event", "citizen_registered",
		"module", "election/citizen",
		"layer", "service",
		"citizen_id", citizen.ID,
	)
	return citizen, nil
}

func (s *citizenService) Get(ctx context.Context, id uuid.UUID) (*domain.Citizen, error) {
	return s.citizens.GetByID(ctx, id)
}

func (s *citizenService) List(ctx context.Context) ([]domain.Citizen, error) {
	return s.citizens.List(ctx)
}

// ListUnaffiliated returns the citizens a party could still enroll.
func (s *citizenService) ListUnaffiliated(ctx context.Context) ([]domain.Citizen, error) {
	return s.citizens.ListUnaffiliated(ctx)
}
