package repository

import (
	"database/sql"
	"fmt"

	"github.com/burrowlab/burrowtrack/internal/models"
)

// BurrowRepository handles database operations for burrow length tracks
type BurrowRepository struct {
	db *sql.DB
}

// NewBurrowRepository creates a new burrow repository
func NewBurrowRepository(db *sql.DB) *BurrowRepository {
	return &BurrowRepository{db: db}
}

// InsertSamples appends burrow length observations for a session.
func (r *BurrowRepository) InsertSamples(samples []models.BurrowSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO burrow_samples (session_id, burrow_id, frame_index, length_px)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(s.SessionID, s.BurrowID, s.FrameIndex, s.LengthPX); err != nil {
			return fmt.Errorf("failed to insert burrow sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit burrow samples: %w", err)
	}
	return nil
}

// GetBySession returns a session's burrow samples ordered by burrow
// and frame index.
func (r *BurrowRepository) GetBySession(sessionID int64) ([]models.BurrowSample, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, burrow_id, frame_index, length_px
		FROM burrow_samples
		WHERE session_id = ?
		ORDER BY burrow_id, frame_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query burrow samples: %w", err)
	}
	defer rows.Close()

	var samples []models.BurrowSample
	for rows.Next() {
		var s models.BurrowSample
		if err := rows.Scan(&s.ID, &s.SessionID, &s.BurrowID, &s.FrameIndex, &s.LengthPX); err != nil {
			return nil, fmt.Errorf("failed to scan burrow sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}
