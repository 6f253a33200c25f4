package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/burrowlab/burrowtrack/internal/models"
)

// AnalysisTaskRepository handles database operations for analysis tasks
type AnalysisTaskRepository struct {
	db *sql.DB
}

// NewAnalysisTaskRepository creates a new analysis task repository
func NewAnalysisTaskRepository(db *sql.DB) *AnalysisTaskRepository {
	return &AnalysisTaskRepository{db: db}
}

// Create creates a new analysis task
func (r *AnalysisTaskRepository) Create(task *models.AnalysisTask) error {
	query := `
		INSERT INTO analysis_tasks (
			skill_name, task_type, session_id, status, progress_percent,
			params_json, total_frames, processed_frames, failed_frames,
			result_summary, error_message, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		task.SkillName,
		task.TaskType,
		task.SessionID,
		task.Status,
		task.ProgressPercent,
		task.ParamsJSON,
		task.TotalFrames,
		task.ProcessedFrames,
		task.FailedFrames,
		task.ResultSummary,
		task.ErrorMessage,
		task.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves an analysis task by ID
func (r *AnalysisTaskRepository) GetByID(id int64) (*models.AnalysisTask, error) {
	query := `
		SELECT id, skill_name, task_type, session_id, status, progress_percent,
		       params_json, total_frames, processed_frames, failed_frames,
		       result_summary, error_message, created_by,
		       created_at, updated_at, started_at, completed_at
		FROM analysis_tasks
		WHERE id = ?
	`

	task := &models.AnalysisTask{}
	var startedAt, completedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&task.ID,
		&task.SkillName,
		&task.TaskType,
		&task.SessionID,
		&task.Status,
		&task.ProgressPercent,
		&task.ParamsJSON,
		&task.TotalFrames,
		&task.ProcessedFrames,
		&task.FailedFrames,
		&task.ResultSummary,
		&task.ErrorMessage,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
		&startedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis task not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis task: %w", err)
	}

	if startedAt.Valid {
		task.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

// List retrieves analysis tasks with optional filters
func (r *AnalysisTaskRepository) List(skillName, status string, limit, offset int) ([]*models.AnalysisTask, error) {
	query := `
		SELECT id, skill_name, task_type, session_id, status, progress_percent,
		       params_json, total_frames, processed_frames, failed_frames,
		       result_summary, error_message, created_by,
		       created_at, updated_at, started_at, completed_at
		FROM analysis_tasks
	`

	var conditions []string
	var args []interface{}
	if skillName != "" {
		conditions = append(conditions, "skill_name = ?")
		args = append(args, skillName)
	}
	if status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.AnalysisTask
	for rows.Next() {
		task := &models.AnalysisTask{}
		var startedAt, completedAt sql.NullTime

		if err := rows.Scan(
			&task.ID,
			&task.SkillName,
			&task.TaskType,
			&task.SessionID,
			&task.Status,
			&task.ProgressPercent,
			&task.ParamsJSON,
			&task.TotalFrames,
			&task.ProcessedFrames,
			&task.FailedFrames,
			&task.ResultSummary,
			&task.ErrorMessage,
			&task.CreatedBy,
			&task.CreatedAt,
			&task.UpdatedAt,
			&startedAt,
			&completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis task: %w", err)
		}

		if startedAt.Valid {
			task.StartedAt = &startedAt.Time
		}
		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// MarkAsFailed marks a task as failed with an error message
func (r *AnalysisTaskRepository) MarkAsFailed(id int64, errorMsg string) error {
	query := `
		UPDATE analysis_tasks
		SET status = 'failed',
		    error_message = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, errorMsg, id); err != nil {
		return fmt.Errorf("failed to mark task as failed: %w", err)
	}
	return nil
}
