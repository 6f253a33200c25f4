package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/burrowlab/burrowtrack/internal/analysis"
	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
)

// AnalysisTaskService handles analysis task business logic
type AnalysisTaskService struct {
	repo *repository.AnalysisTaskRepository
	db   *sql.DB
}

// NewAnalysisTaskService creates a new analysis task service
func NewAnalysisTaskService(repo *repository.AnalysisTaskRepository, db *sql.DB) *AnalysisTaskService {
	return &AnalysisTaskService{
		repo: repo,
		db:   db,
	}
}

// CreateTask creates a new analysis task and starts its worker.
func (s *AnalysisTaskService) CreateTask(skillName, taskType string, sessionID int64, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	if !analysis.IsKnownSkill(skillName) {
		return nil, fmt.Errorf("unknown skill: %s", skillName)
	}
	if taskType != models.TaskTypeIncremental && taskType != models.TaskTypeFullRecompute {
		return nil, fmt.Errorf("invalid task type: %s", taskType)
	}

	paramsJSON := ""
	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize params: %w", err)
		}
		paramsJSON = string(paramsBytes)
	}

	task := &models.AnalysisTask{
		SkillName:  skillName,
		TaskType:   taskType,
		SessionID:  sessionID,
		Status:     models.TaskStatusPending,
		ParamsJSON: paramsJSON,
		CreatedBy:  createdBy,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	go s.runAnalyzer(task.ID, skillName, taskType)

	return task, nil
}

// runAnalyzer executes an analyzer in a background goroutine.
func (s *AnalysisTaskService) runAnalyzer(taskID int64, skillName, taskType string) {
	log.Printf("[AnalysisTaskService] Starting worker for task %d (skill: %s, type: %s)", taskID, skillName, taskType)

	analyzer := analysis.GetAnalyzer(skillName, s.db)
	if analyzer == nil {
		log.Printf("[AnalysisTaskService] No analyzer registered for skill: %s", skillName)
		s.repo.MarkAsFailed(taskID, fmt.Sprintf("unknown skill: %s", skillName))
		return
	}

	mode := "incremental"
	if taskType == models.TaskTypeFullRecompute {
		mode = "full"
	}

	if err := analyzer.Analyze(context.Background(), taskID, mode); err != nil {
		log.Printf("[AnalysisTaskService] Task %d failed: %v", taskID, err)
		s.repo.MarkAsFailed(taskID, err.Error())
		return
	}

	log.Printf("[AnalysisTaskService] Task %d completed", taskID)
}

// GetTask retrieves a task by ID
func (s *AnalysisTaskService) GetTask(id int64) (*models.AnalysisTask, error) {
	return s.repo.GetByID(id)
}

// ListTasks retrieves tasks with optional filters
func (s *AnalysisTaskService) ListTasks(skillName, status string, limit, offset int) ([]*models.AnalysisTask, error) {
	return s.repo.List(skillName, status, limit, offset)
}

// GetProgress returns the live progress of a task
func (s *AnalysisTaskService) GetProgress(taskID int64) (*analysis.Progress, error) {
	task, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.GetAnalyzer(task.SkillName, s.db)
	if analyzer == nil {
		return nil, fmt.Errorf("no analyzer registered for skill: %s", task.SkillName)
	}
	return analyzer.GetProgress(taskID)
}
