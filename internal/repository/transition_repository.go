package repository

import (
	"database/sql"
	"fmt"

	"github.com/burrowlab/burrowtrack/internal/models"
)

// TransitionRepository handles database operations for persisted
// transition events and dwell summaries.
type TransitionRepository struct {
	db *sql.DB
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// ReplaceForSession replaces a session's persisted transitions in one
// transaction. Re-running the analyzer must not duplicate rows.
func (r *TransitionRepository) ReplaceForSession(sessionID int64, algoVersion string, transitions []models.StateTransition) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM state_transitions WHERE session_id = ? AND algo_version = ?",
		sessionID, algoVersion,
	); err != nil {
		return fmt.Errorf("failed to clear transitions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO state_transitions (session_id, from_state, to_state, duration_seconds, frame_index, algo_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range transitions {
		if _, err := stmt.Exec(sessionID, t.FromState, t.ToState, t.DurationSeconds, t.FrameIndex, algoVersion); err != nil {
			return fmt.Errorf("failed to insert transition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transitions: %w", err)
	}
	return nil
}

// GetBySession returns a session's persisted transitions in frame
// order.
func (r *TransitionRepository) GetBySession(sessionID int64) ([]models.StateTransition, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, from_state, to_state, duration_seconds, frame_index, algo_version, created_at
		FROM state_transitions
		WHERE session_id = ?
		ORDER BY frame_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	var transitions []models.StateTransition
	for rows.Next() {
		var t models.StateTransition
		if err := rows.Scan(
			&t.ID, &t.SessionID, &t.FromState, &t.ToState,
			&t.DurationSeconds, &t.FrameIndex, &t.AlgoVersion, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		transitions = append(transitions, t)
	}

	return transitions, rows.Err()
}

// ReplaceDwellForSession replaces a session's persisted dwell
// summaries in one transaction.
func (r *TransitionRepository) ReplaceDwellForSession(sessionID int64, algoVersion string, stats []models.DwellStat) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM dwell_stats WHERE session_id = ? AND algo_version = ?",
		sessionID, algoVersion,
	); err != nil {
		return fmt.Errorf("failed to clear dwell stats: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO dwell_stats (session_id, state, category, total_seconds, mean_seconds, median_seconds, run_count, algo_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stats {
		if _, err := stmt.Exec(sessionID, s.State, s.Category, s.TotalSeconds, s.MeanSeconds, s.MedianSeconds, s.RunCount, algoVersion); err != nil {
			return fmt.Errorf("failed to insert dwell stat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dwell stats: %w", err)
	}
	return nil
}

// GetDwellBySession returns a session's persisted dwell summaries.
func (r *TransitionRepository) GetDwellBySession(sessionID int64) ([]models.DwellStat, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, state, category, total_seconds, mean_seconds, median_seconds, run_count, algo_version, created_at
		FROM dwell_stats
		WHERE session_id = ?
		ORDER BY category
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dwell stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DwellStat
	for rows.Next() {
		var s models.DwellStat
		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.State, &s.Category,
			&s.TotalSeconds, &s.MeanSeconds, &s.MedianSeconds, &s.RunCount, &s.AlgoVersion, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dwell stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
