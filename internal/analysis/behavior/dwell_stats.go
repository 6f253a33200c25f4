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
	"github.com/burrowlab/burrowtrack/internal/state"
	"github.com/burrowlab/burrowtrack/internal/stats"
)

// dwellCategories pairs each state query with a representative code
// for reporting.
var dwellCategories = []struct {
	query string
	code  int
}{
	{state.QueryUnderground, 10},
	{state.QueryInAir, 11},
	{state.QueryOnHill, 12},
	{state.QueryInValley, 13},
	{state.QueryInBurrow, 21},
}

// DwellStatsAnalyzer summarizes, per category, how long the animal
// stays in each state before leaving it.
type DwellStatsAnalyzer struct {
	*analysis.BaseAnalyzer
}

// NewDwellStatsAnalyzer creates a new dwell stats analyzer
func NewDwellStatsAnalyzer(db *sql.DB) analysis.Analyzer {
	return &DwellStatsAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, "dwell_stats"),
	}
}

// Analyze computes and persists dwell summaries for the task's sessions.
func (a *DwellStatsAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[DwellStatsAnalyzer] Starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	sessionID, _, err := a.TaskParams(taskID)
	if err != nil {
		return fmt.Errorf("failed to load task params: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(a.DB)
	trackRepo := repository.NewTrackRepository(a.DB)
	transitionRepo := repository.NewTransitionRepository(a.DB)

	var sessionIDs []int64
	if sessionID > 0 {
		sessionIDs = []int64{sessionID}
	} else {
		sessionIDs, err = sessionRepo.ListComputedIDs()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
	}

	processed := 0
	total := 0
	analyzedSessions := 0

	for _, id := range sessionIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		session, err := sessionRepo.GetByID(id)
		if err != nil {
			return err
		}
		if session == nil || !session.StatesComputed || session.TimeScale() <= 0 {
			continue
		}

		codes, err := trackRepo.GetStates(id)
		if err != nil {
			return err
		}

		rows, err := dwellRows(id, codes, session.TimeScale())
		if err != nil {
			return err
		}

		if err := transitionRepo.ReplaceDwellForSession(id, AlgoVersion, rows); err != nil {
			return err
		}

		total += len(codes)
		processed += len(codes)
		analyzedSessions++

		if err := a.UpdateTaskProgress(taskID, processed, total, 0); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
	}

	summary, _ := json.Marshal(map[string]interface{}{"sessions": analyzedSessions})
	if err := a.MarkTaskAsCompleted(taskID, string(summary)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[DwellStatsAnalyzer] Completed: %d sessions", analyzedSessions)
	return nil
}

// dwellRows computes one summary row per category for a session.
func dwellRows(sessionID int64, codes []int, timeScale float64) ([]models.DwellStat, error) {
	var rows []models.DwellStat

	for _, c := range dwellCategories {
		mask, err := state.Query(codes, c.query)
		if err != nil {
			return nil, err
		}

		var durations []float64
		for _, run := range state.Runs(mask) {
			durations = append(durations, float64(run[1]-run[0])*timeScale)
		}

		summary := stats.Summarize(durations)
		rows = append(rows, models.DwellStat{
			SessionID:     sessionID,
			State:         c.code,
			Category:      c.query,
			TotalSeconds:  summary.Total,
			MeanSeconds:   summary.Mean,
			MedianSeconds: stats.Percentile(durations, 50),
			RunCount:      summary.Count,
		})
	}

	return rows, nil
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer("dwell_stats", NewDwellStatsAnalyzer)
}
