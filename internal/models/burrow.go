package models

// BurrowSample is one observation of a burrow's excavated length at a
// given frame, in pixels as tracked.
type BurrowSample struct {
	ID         int64   `json:"id" db:"id"`
	SessionID  int64   `json:"session_id" db:"session_id"`
	BurrowID   int     `json:"burrow_id" db:"burrow_id"`
	FrameIndex int     `json:"frame_index" db:"frame_index"`
	LengthPX   float64 `json:"length_px" db:"length_px"`
}

// BurrowLengthPoint is a burrow-length observation scaled to physical
// units with the session's calibration.
type BurrowLengthPoint struct {
	TimeSeconds float64 `json:"time_seconds"`
	LengthCM    float64 `json:"length_cm"`
}

// BurrowTrack is the length-over-time series of a single burrow.
type BurrowTrack struct {
	BurrowID int                 `json:"burrow_id"`
	Points   []BurrowLengthPoint `json:"points"`
}
