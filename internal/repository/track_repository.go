package repository

import (
	"database/sql"
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/burrowlab/burrowtrack/internal/models"
)

// TrackRepository handles database operations for per-frame track data
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// ReplaceFrames replaces a session's frames in one transaction.
func (r *TrackRepository) ReplaceFrames(sessionID int64, frames []models.TrackFrame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM track_frames WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear frames: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO track_frames (session_id, frame_index, pos_x, pos_y, state)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.Exec(sessionID, f.FrameIndex, f.X, f.Y, f.State); err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", f.FrameIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit frames: %w", err)
	}
	return nil
}

// GetStates returns a session's state codes ordered by frame index.
func (r *TrackRepository) GetStates(sessionID int64) ([]int, error) {
	rows, err := r.db.Query(
		"SELECT state FROM track_frames WHERE session_id = ? ORDER BY frame_index",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	var states []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, s)
	}

	return states, rows.Err()
}

// GetPositions returns a session's pixel positions ordered by frame
// index.
func (r *TrackRepository) GetPositions(sessionID int64) ([]r2.Point, error) {
	rows, err := r.db.Query(
		"SELECT pos_x, pos_y FROM track_frames WHERE session_id = ? ORDER BY frame_index",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var points []r2.Point
	for rows.Next() {
		var p r2.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// CountFrames returns the number of frames stored for a session.
func (r *TrackRepository) CountFrames(sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM track_frames WHERE session_id = ?",
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}
