package models

import "time"

// StateTransition is a persisted transition event produced by the
// state_transitions analyzer. FrameIndex is the first frame spent in
// ToState; DurationSeconds is the dwell length of FromState that ended
// there.
type StateTransition struct {
	ID              int64     `json:"id" db:"id"`
	SessionID       int64     `json:"session_id" db:"session_id"`
	FromState       int       `json:"from_state" db:"from_state"`
	ToState         int       `json:"to_state" db:"to_state"`
	DurationSeconds float64   `json:"duration_seconds" db:"duration_seconds"`
	FrameIndex      int       `json:"frame_index" db:"frame_index"`
	AlgoVersion     string    `json:"algo_version,omitempty" db:"algo_version"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// DwellStat is a persisted per-category dwell summary produced by the
// dwell_stats analyzer.
type DwellStat struct {
	ID            int64     `json:"id" db:"id"`
	SessionID     int64     `json:"session_id" db:"session_id"`
	State         int       `json:"state" db:"state"` // representative code for the category
	Category      string    `json:"category" db:"category"`
	TotalSeconds  float64   `json:"total_seconds" db:"total_seconds"`
	MeanSeconds   float64   `json:"mean_seconds" db:"mean_seconds"`
	MedianSeconds float64   `json:"median_seconds" db:"median_seconds"`
	RunCount      int       `json:"run_count" db:"run_count"`
	AlgoVersion   string    `json:"algo_version,omitempty" db:"algo_version"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
