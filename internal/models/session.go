package models

import "time"

// Session represents one recorded tracking session (a single video's
// worth of per-frame data).
type Session struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Calibration
	FPS         float64 `json:"fps" db:"fps"`                     // frames per second
	PixelSizeCM float64 `json:"pixel_size_cm" db:"pixel_size_cm"` // centimeters per pixel

	// Pipeline state
	FrameCount     int  `json:"frame_count" db:"frame_count"`
	StatesComputed bool `json:"states_computed" db:"states_computed"` // per-frame states ingested

	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TimeScale returns the session's seconds-per-frame factor, or zero if
// the frame rate is not set.
func (s *Session) TimeScale() float64 {
	if s.FPS <= 0 {
		return 0
	}
	return 1 / s.FPS
}
