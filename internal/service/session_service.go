package service

import (
	"errors"
	"fmt"

	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
	"github.com/burrowlab/burrowtrack/internal/spatial"
	"github.com/burrowlab/burrowtrack/internal/state"
)

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = errors.New("session not found")

// FrameInput is one frame of an ingest request. The state may be given
// either as an already-encoded code or as a structured location that
// the codec encodes (not both).
type FrameInput struct {
	FrameIndex  int      `json:"frame_index"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	State       *int     `json:"state,omitempty"`
	Underground *bool    `json:"underground,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// SessionService handles business logic for tracking sessions
type SessionService struct {
	sessions *repository.SessionRepository
	tracks   *repository.TrackRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessions *repository.SessionRepository, tracks *repository.TrackRepository) *SessionService {
	return &SessionService{sessions: sessions, tracks: tracks}
}

// CreateSession registers a new tracking session
func (s *SessionService) CreateSession(session *models.Session) error {
	if session.Name == "" {
		return fmt.Errorf("session name is required")
	}
	return s.sessions.Create(session)
}

// ListSessions retrieves sessions with filtering and pagination
func (s *SessionService) ListSessions(filter models.SessionFilter) ([]models.Session, int64, error) {
	return s.sessions.List(filter)
}

// GetSession retrieves a single session by ID
func (s *SessionService) GetSession(id int64) (*models.Session, error) {
	session, err := s.sessions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// IngestFrames replaces a session's per-frame track. Structured states
// are encoded through the codec; invalid combinations are rejected
// before anything is written.
func (s *SessionService) IngestFrames(sessionID int64, inputs []FrameInput) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}

	frames := make([]models.TrackFrame, 0, len(inputs))
	for _, in := range inputs {
		code := 0
		switch {
		case in.State != nil:
			code = *in.State
		default:
			encoded, err := state.Encode(state.LocationState{
				Underground: in.Underground,
				Location:    in.Location,
			})
			if err != nil {
				return fmt.Errorf("frame %d: %w", in.FrameIndex, err)
			}
			code = encoded
		}

		frames = append(frames, models.TrackFrame{
			SessionID:  sessionID,
			FrameIndex: in.FrameIndex,
			X:          in.X,
			Y:          in.Y,
			State:      code,
		})
	}

	if err := s.tracks.ReplaceFrames(sessionID, frames); err != nil {
		return err
	}
	return s.sessions.MarkStatesComputed(sessionID, len(frames))
}

// GetStates returns a session's state sequence plus its time scale.
func (s *SessionService) GetStates(sessionID int64) ([]int, float64, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, 0, err
	}

	states, err := s.tracks.GetStates(sessionID)
	if err != nil {
		return nil, 0, err
	}
	return states, session.TimeScale(), nil
}

// QueryStates evaluates a category predicate over a session's states.
func (s *SessionService) QueryStates(sessionID int64, query string) ([]bool, error) {
	states, _, err := s.GetStates(sessionID)
	if err != nil {
		return nil, err
	}
	return state.Query(states, query)
}

// MovementStats summarizes a session's trajectory in physical units
// using the session's pixel and time calibration.
func (s *SessionService) MovementStats(sessionID int64) (*models.MovementStats, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	points, err := s.tracks.GetPositions(sessionID)
	if err != nil {
		return nil, err
	}

	scale := session.PixelSizeCM
	return &models.MovementStats{
		PathLengthCM:      spatial.PathLength(points) * scale,
		NetDisplacementCM: spatial.NetDisplacement(points) * scale,
		MeanSpeedCMS:      spatial.MeanSpeed(points, session.TimeScale()) * scale,
		FrameCount:        len(points),
	}, nil
}
