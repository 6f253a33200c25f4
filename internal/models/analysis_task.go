package models

import "time"

// AnalysisTask represents an asynchronous analysis run over one
// session (or all sessions when SessionID is zero).
type AnalysisTask struct {
	ID int64 `json:"id" db:"id"`

	// Task identification
	SkillName string `json:"skill_name" db:"skill_name"` // which analyzer to run
	TaskType  string `json:"task_type" db:"task_type"`   // INCREMENTAL, FULL_RECOMPUTE
	SessionID int64  `json:"session_id,omitempty" db:"session_id"`

	// Status
	Status          string  `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent float64 `json:"progress_percent" db:"progress_percent"`

	// Input parameters
	ParamsJSON string `json:"params_json,omitempty" db:"params_json"`

	// Execution info
	TotalFrames     int `json:"total_frames,omitempty" db:"total_frames"`
	ProcessedFrames int `json:"processed_frames" db:"processed_frames"`
	FailedFrames    int `json:"failed_frames" db:"failed_frames"`

	// Results
	ResultSummary string `json:"result_summary,omitempty" db:"result_summary"` // JSON summary
	ErrorMessage  string `json:"error_message,omitempty" db:"error_message"`

	// Metadata
	CreatedBy   string     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// TaskType constants
const (
	TaskTypeIncremental   = "INCREMENTAL"
	TaskTypeFullRecompute = "FULL_RECOMPUTE"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)
