package service

import (
	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
)

// BurrowService handles business logic for burrow length tracks
type BurrowService struct {
	sessions *repository.SessionRepository
	burrows  *repository.BurrowRepository
}

// NewBurrowService creates a new burrow service
func NewBurrowService(sessions *repository.SessionRepository, burrows *repository.BurrowRepository) *BurrowService {
	return &BurrowService{sessions: sessions, burrows: burrows}
}

// AddSamples appends burrow length observations to a session.
func (s *BurrowService) AddSamples(sessionID int64, samples []models.BurrowSample) error {
	if session, err := s.sessions.GetByID(sessionID); err != nil {
		return err
	} else if session == nil {
		return ErrSessionNotFound
	}

	for i := range samples {
		samples[i].SessionID = sessionID
	}
	return s.burrows.InsertSamples(samples)
}

// GetBurrowTracks returns each burrow's length over time, scaled to
// seconds and centimeters with the session's calibration.
func (s *BurrowService) GetBurrowTracks(sessionID int64) ([]models.BurrowTrack, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	samples, err := s.burrows.GetBySession(sessionID)
	if err != nil {
		return nil, err
	}

	timeScale := session.TimeScale()
	lengthScale := session.PixelSizeCM

	var tracks []models.BurrowTrack
	byBurrow := make(map[int]int) // burrow_id -> index into tracks
	for _, sample := range samples {
		idx, ok := byBurrow[sample.BurrowID]
		if !ok {
			idx = len(tracks)
			byBurrow[sample.BurrowID] = idx
			tracks = append(tracks, models.BurrowTrack{BurrowID: sample.BurrowID})
		}
		tracks[idx].Points = append(tracks[idx].Points, models.BurrowLengthPoint{
			TimeSeconds: float64(sample.FrameIndex) * timeScale,
			LengthCM:    sample.LengthPX * lengthScale,
		})
	}

	return tracks, nil
}
