package model

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a video-call room. The actual call runs on the external
// video provider; we persist the room record and sign join tokens.
type Meeting struct {
	ID          uuid.UUID  `json:"id"`
	HostID      string     `json:"host_id"`
	Title       string     `json:"title"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateMeetingRequest is the payload for creating a meeting room.
type CreateMeetingRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	ScheduledAt *time.Time `json:"scheduled_at" binding:"omitempty"`
}

// MeetingToken is a signed credential for the video provider's SDK.
type MeetingToken struct {
	Token     string    `json:"token"`
	APIKey    string    `json:"api_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
