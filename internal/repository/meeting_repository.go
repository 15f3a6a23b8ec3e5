package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// MeetingRepository handles meeting room data access.
type MeetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

// Create inserts a new meeting room.
func (r *MeetingRepository) Create(ctx context.Context, m *model.Meeting) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO meetings (host_id, title, scheduled_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.HostID, m.Title, m.ScheduledAt,
	).Scan(&m.ID, &m.CreatedAt)
}

// GetByID retrieves a meeting by its UUID.
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, host_id, title, scheduled_at, created_at
		 FROM meetings WHERE id = $1`, id,
	).Scan(&m.ID, &m.HostID, &m.Title, &m.ScheduledAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves all meetings, newest first.
func (r *MeetingRepository) List(ctx context.Context) ([]model.Meeting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, host_id, title, scheduled_at, created_at
		 FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.ID, &m.HostID, &m.Title, &m.ScheduledAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}
