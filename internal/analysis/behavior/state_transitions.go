package behavior

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/burrowlab/burrowtrack/internal/analysis"
	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
	"github.com/burrowlab/burrowtrack/internal/transition"
)

// AlgoVersion tags persisted analysis rows so a re-run with a new
// algorithm replaces rather than mixes with old results.
const AlgoVersion = "v1"

// StateTransitionsAnalyzer extracts state-change events from each
// session's per-frame state sequence and persists them.
type StateTransitionsAnalyzer struct {
	*analysis.BaseAnalyzer
}

// NewStateTransitionsAnalyzer creates a new state transitions analyzer
func NewStateTransitionsAnalyzer(db *sql.DB) analysis.Analyzer {
	return &StateTransitionsAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, "state_transitions"),
	}
}

// transitionParams are the optional task parameters.
type transitionParams struct {
	MinDuration float64 `json:"min_duration"` // seconds, strictly-greater threshold
	States      []int   `json:"states"`       // allowed codes; empty = all
}

// Analyze extracts and persists transitions for the task's sessions.
func (a *StateTransitionsAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[StateTransitionsAnalyzer] Starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	sessionID, paramsJSON, err := a.TaskParams(taskID)
	if err != nil {
		return fmt.Errorf("failed to load task params: %w", err)
	}

	var params transitionParams
	if paramsJSON != "" {
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return fmt.Errorf("failed to parse task params: %w", err)
		}
	}

	sessionRepo := repository.NewSessionRepository(a.DB)
	trackRepo := repository.NewTrackRepository(a.DB)
	transitionRepo := repository.NewTransitionRepository(a.DB)

	sessionIDs, err := a.resolveSessions(sessionRepo, sessionID)
	if err != nil {
		return err
	}

	totalFrames := 0
	processedFrames := 0
	totalTransitions := 0
	analyzedSessions := 0

	for _, id := range sessionIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if mode != "full" {
			done, err := a.alreadyAnalyzed(id)
			if err != nil {
				return err
			}
			if done {
				continue
			}
		}

		session, err := sessionRepo.GetByID(id)
		if err != nil {
			return err
		}
		if session == nil || !session.StatesComputed {
			continue
		}
		if session.TimeScale() <= 0 {
			log.Printf("[StateTransitionsAnalyzer] Skipping session %d: frame rate not set", id)
			continue
		}

		states, err := trackRepo.GetStates(id)
		if err != nil {
			return err
		}

		events := transition.Events(states, session.TimeScale(), transition.Options{
			Allowed:     allowedOrNil(params.States),
			MinDuration: params.MinDuration,
		})

		rows := make([]models.StateTransition, 0, len(events))
		for _, ev := range events {
			rows = append(rows, models.StateTransition{
				SessionID:       id,
				FromState:       ev.From,
				ToState:         ev.To,
				DurationSeconds: ev.Duration,
				FrameIndex:      ev.FrameIndex,
			})
		}

		if err := transitionRepo.ReplaceForSession(id, AlgoVersion, rows); err != nil {
			return err
		}

		totalFrames += len(states)
		processedFrames += len(states)
		totalTransitions += len(rows)
		analyzedSessions++

		if err := a.UpdateTaskProgress(taskID, processedFrames, totalFrames, 0); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
	}

	summary, _ := json.Marshal(map[string]interface{}{
		"sessions":    analyzedSessions,
		"transitions": totalTransitions,
	})
	if err := a.MarkTaskAsCompleted(taskID, string(summary)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[StateTransitionsAnalyzer] Completed: %d sessions, %d transitions", analyzedSessions, totalTransitions)
	return nil
}

func (a *StateTransitionsAnalyzer) resolveSessions(repo *repository.SessionRepository, sessionID int64) ([]int64, error) {
	if sessionID > 0 {
		return []int64{sessionID}, nil
	}
	ids, err := repo.ListComputedIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

func (a *StateTransitionsAnalyzer) alreadyAnalyzed(sessionID int64) (bool, error) {
	var count int
	err := a.DB.QueryRow(
		"SELECT COUNT(*) FROM state_transitions WHERE session_id = ? AND algo_version = ?",
		sessionID, AlgoVersion,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing transitions: %w", err)
	}
	return count > 0, nil
}

func allowedOrNil(states []int) []int {
	if len(states) == 0 {
		return nil
	}
	return states
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer("state_transitions", NewStateTransitionsAnalyzer)
}
