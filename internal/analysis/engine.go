// Package analysis provides the analyzer registry and the shared task
// bookkeeping every analyzer needs.
package analysis

import (
	"context"
	"database/sql"
)

// Analyzer is the interface that all analysis skills must implement
type Analyzer interface {
	// Analyze performs the analysis for a given task.
	// mode is "incremental" or "full".
	Analyze(ctx context.Context, taskID int64, mode string) error

	// GetProgress returns the current progress of the analysis
	GetProgress(taskID int64) (*Progress, error)

	// GetName returns the name of the analyzer
	GetName() string
}

// Progress represents the progress of an analysis task
type Progress struct {
	Processed int     // Number of frames processed
	Total     int     // Total number of frames to process
	Failed    int     // Number of failed frames
	Percent   float64 // Progress percentage (0-100)
	Message   string  // Optional progress message
}

// BaseAnalyzer provides common functionality for all analyzers
type BaseAnalyzer struct {
	DB   *sql.DB
	Name string
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(db *sql.DB, name string) *BaseAnalyzer {
	return &BaseAnalyzer{
		DB:   db,
		Name: name,
	}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// UpdateTaskProgress updates the progress of an analysis task
func (a *BaseAnalyzer) UpdateTaskProgress(taskID int64, processed, total, failed int) error {
	percent := 0.0
	if total > 0 {
		percent = float64(processed) / float64(total) * 100.0
	}

	query := `
		UPDATE analysis_tasks
		SET processed_frames = ?,
		    total_frames = ?,
		    failed_frames = ?,
		    progress_percent = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.Exec(query, processed, total, failed, percent, taskID)
	return err
}

// MarkTaskAsRunning marks a task as running
func (a *BaseAnalyzer) MarkTaskAsRunning(taskID int64) error {
	query := `
		UPDATE analysis_tasks
		SET status = 'running',
		    started_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.Exec(query, taskID)
	return err
}

// MarkTaskAsCompleted marks a task as completed with a result summary
func (a *BaseAnalyzer) MarkTaskAsCompleted(taskID int64, resultSummary string) error {
	query := `
		UPDATE analysis_tasks
		SET status = 'completed',
		    progress_percent = 100,
		    result_summary = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.Exec(query, resultSummary, taskID)
	return err
}

// MarkTaskAsFailed marks a task as failed with an error message
func (a *BaseAnalyzer) MarkTaskAsFailed(taskID int64, errorMsg string) error {
	query := `
		UPDATE analysis_tasks
		SET status = 'failed',
		    error_message = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.Exec(query, errorMsg, taskID)
	return err
}

// GetProgress returns the current progress from the database
func (a *BaseAnalyzer) GetProgress(taskID int64) (*Progress, error) {
	query := `
		SELECT processed_frames, total_frames, failed_frames, progress_percent
		FROM analysis_tasks
		WHERE id = ?
	`

	var progress Progress
	err := a.DB.QueryRow(query, taskID).Scan(
		&progress.Processed,
		&progress.Total,
		&progress.Failed,
		&progress.Percent,
	)
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

// TaskParams returns a task's session scope and raw params JSON.
func (a *BaseAnalyzer) TaskParams(taskID int64) (sessionID int64, paramsJSON string, err error) {
	query := `SELECT session_id, params_json FROM analysis_tasks WHERE id = ?`
	err = a.DB.QueryRow(query, taskID).Scan(&sessionID, &paramsJSON)
	return sessionID, paramsJSON, err
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(db *sql.DB) Analyzer

// AnalyzerRegistry maps skill names to analyzer factories
var AnalyzerRegistry = make(map[string]AnalyzerFactory)

// RegisterAnalyzer registers an analyzer factory for a skill name
func RegisterAnalyzer(skillName string, factory AnalyzerFactory) {
	AnalyzerRegistry[skillName] = factory
}

// GetAnalyzer retrieves an analyzer instance for a skill name
func GetAnalyzer(skillName string, db *sql.DB) Analyzer {
	factory, ok := AnalyzerRegistry[skillName]
	if !ok {
		return nil
	}
	return factory(db)
}

// IsKnownSkill checks whether a skill name has a registered analyzer
func IsKnownSkill(skillName string) bool {
	_, ok := AnalyzerRegistry[skillName]
	return ok
}
