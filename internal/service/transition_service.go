package service

import (
	"sort"

	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
	"github.com/burrowlab/burrowtrack/internal/state"
	"github.com/burrowlab/burrowtrack/internal/transition"
)

// TransitionAggregate is one (from, to) record of an on-demand
// extraction, with all observed dwell durations.
type TransitionAggregate struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	Durations []float64 `json:"durations"`
	Count     int       `json:"count"`
}

// TransitionService drives the codec and the transition analyzer over
// stored sessions.
type TransitionService struct {
	sessions    *repository.SessionRepository
	tracks      *repository.TrackRepository
	transitions *repository.TransitionRepository
}

// NewTransitionService creates a new transition service
func NewTransitionService(
	sessions *repository.SessionRepository,
	tracks *repository.TrackRepository,
	transitions *repository.TransitionRepository,
) *TransitionService {
	return &TransitionService{
		sessions:    sessions,
		tracks:      tracks,
		transitions: transitions,
	}
}

// statesFor loads a session's state sequence and time scale, failing
// with ErrStatesNotComputed when the upstream ingest has not run. A
// present-but-empty sequence is valid and returns successfully.
func (s *TransitionService) statesFor(sessionID int64) ([]int, float64, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, 0, err
	}
	if session == nil {
		return nil, 0, ErrSessionNotFound
	}
	if !session.StatesComputed {
		return nil, 0, transition.ErrStatesNotComputed
	}

	states, err := s.tracks.GetStates(sessionID)
	if err != nil {
		return nil, 0, err
	}
	return states, session.TimeScale(), nil
}

// ExtractTransitions runs the transition scan over a session's state
// sequence and returns the per-pair dwell aggregates in a stable
// (from, to) order.
func (s *TransitionService) ExtractTransitions(sessionID int64, filter models.TransitionFilter) ([]TransitionAggregate, error) {
	states, timeScale, err := s.statesFor(sessionID)
	if err != nil {
		return nil, err
	}

	records := transition.Extract(states, timeScale, transition.Options{
		Allowed:     filter.States,
		MinDuration: filter.MinDuration,
	})

	aggregates := make([]TransitionAggregate, 0, len(records))
	for pair, durations := range records {
		aggregates = append(aggregates, TransitionAggregate{
			From:      pair.From,
			To:        pair.To,
			Durations: durations,
			Count:     len(durations),
		})
	}
	sortAggregates(aggregates)
	return aggregates, nil
}

// BuildGraph folds a session's transitions into the weighted category
// graph consumed by external renderers.
func (s *TransitionService) BuildGraph(sessionID int64, filter models.TransitionFilter) (*transition.GraphSummary, error) {
	states, timeScale, err := s.statesFor(sessionID)
	if err != nil {
		return nil, err
	}

	records := transition.Extract(states, timeScale, transition.Options{
		Allowed:     filter.States,
		MinDuration: filter.MinDuration,
	})
	return transition.BuildSummary(records, state.DefaultCategories)
}

// GetPersisted returns the transition rows written by the
// state_transitions analyzer.
func (s *TransitionService) GetPersisted(sessionID int64) ([]models.StateTransition, error) {
	if session, err := s.sessions.GetByID(sessionID); err != nil {
		return nil, err
	} else if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.transitions.GetBySession(sessionID)
}

// GetDwellStats returns the dwell summaries written by the dwell_stats
// analyzer.
func (s *TransitionService) GetDwellStats(sessionID int64) ([]models.DwellStat, error) {
	if session, err := s.sessions.GetByID(sessionID); err != nil {
		return nil, err
	} else if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.transitions.GetDwellBySession(sessionID)
}

func sortAggregates(aggregates []TransitionAggregate) {
	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].From != aggregates[j].From {
			return aggregates[i].From < aggregates[j].From
		}
		return aggregates[i].To < aggregates[j].To
	})
}
