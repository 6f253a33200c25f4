package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/burrowlab/burrowtrack/internal/models"
)

// SessionRepository handles database operations for tracking sessions
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session and fills in its ID
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (name, fps, pixel_size_cm, frame_count, states_computed, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		session.Name,
		session.FPS,
		session.PixelSizeCM,
		session.FrameCount,
		session.StatesComputed,
		session.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = id
	return nil
}

// GetByID retrieves a session by ID. Returns nil when not found.
func (r *SessionRepository) GetByID(id int64) (*models.Session, error) {
	query := `
		SELECT id, name, fps, pixel_size_cm, frame_count, states_computed, notes,
		       created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.Name,
		&session.FPS,
		&session.PixelSizeCM,
		&session.FrameCount,
		&session.StatesComputed,
		&session.Notes,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// List retrieves sessions with filtering and pagination
func (r *SessionRepository) List(filter models.SessionFilter) ([]models.Session, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.StatesComputed != nil {
		conditions = append(conditions, "states_computed = ?")
		args = append(args, *filter.StatesComputed)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}

	query := `
		SELECT id, name, fps, pixel_size_cm, frame_count, states_computed, notes,
		       created_at, updated_at
		FROM sessions
	` + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID, &s.Name, &s.FPS, &s.PixelSizeCM, &s.FrameCount,
			&s.StatesComputed, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

// ListComputedIDs returns the IDs of all sessions whose per-frame
// states have been ingested.
func (r *SessionRepository) ListComputedIDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT id FROM sessions WHERE states_computed = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list computed sessions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MarkStatesComputed records that a session's state sequence is fully
// ingested, along with its final frame count.
func (r *SessionRepository) MarkStatesComputed(id int64, frameCount int) error {
	query := `
		UPDATE sessions
		SET states_computed = 1,
		    frame_count = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, frameCount, id)
	if err != nil {
		return fmt.Errorf("failed to mark states computed: %w", err)
	}
	return nil
}
