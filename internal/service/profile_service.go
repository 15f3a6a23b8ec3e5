package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/repository"
)

// ErrProfileNotFound is returned when no account matches the lookup.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService handles account lookup and creation.
type ProfileService struct {
	profiles *repository.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetByEmail retrieves a profile by email.
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p, err := s.profiles.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// GetByUserID retrieves a profile by its opaque user id.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// Create inserts a new profile, minting a user id if none was supplied.
func (s *ProfileService) Create(ctx context.Context, p *model.Profile) error {
	if p.UserID == "" {
		p.UserID = uuid.New().String()
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
