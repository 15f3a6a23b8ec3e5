package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/repository"
)

// ErrMeetingNotFound is returned when no meeting matches the lookup.
var ErrMeetingNotFound = errors.New("meeting not found")

// MeetingService manages video-call rooms and signs join tokens for the
// video provider's client SDK.
type MeetingService struct {
	cfg      *config.Config
	meetings *repository.MeetingRepository
	log      zerolog.Logger
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(cfg *config.Config, meetings *repository.MeetingRepository, log zerolog.Logger) *MeetingService {
	return &MeetingService{
		cfg:      cfg,
		meetings: meetings,
		log:      log.With().Str("component", "meeting_service").Logger(),
	}
}

// Create persists a meeting room hosted by the given user.
func (s *MeetingService) Create(ctx context.Context, hostID string, req *model.CreateMeetingRequest) (*model.Meeting, error) {
	meeting := &model.Meeting{
		HostID:      hostID,
		Title:       req.Title,
		ScheduledAt: req.ScheduledAt,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	s.log.Info().
		Str("meeting_id", meeting.ID.String()).
		Str("host_id", hostID).
		Msg("Meeting created")
	return meeting, nil
}

// Get retrieves one meeting.
func (s *MeetingService) Get(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return meeting, nil
}

// List retrieves all meetings, newest first.
func (s *MeetingService) List(ctx context.Context) ([]model.Meeting, error) {
	meetings, err := s.meetings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	if meetings == nil {
		meetings = []model.Meeting{}
	}
	return meetings, nil
}

// RoomToken signs a short-lived credential the client hands to the video
// provider to join the meeting's room.
func (s *MeetingService) RoomToken(ctx context.Context, meetingID uuid.UUID, userID string) (*model.MeetingToken, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.VideoTokenTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"room": meeting.ID.String(),
		"iss":  s.cfg.VideoAPIKey,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.VideoAPISecret))
	if err != nil {
		return nil, fmt.Errorf("sign room token: %w", err)
	}

	return &model.MeetingToken{
		Token:     signed,
		APIKey:    s.cfg.VideoAPIKey,
		ExpiresAt: expiresAt,
	}, nil
}
