package models

// TrackFrame is one frame of a session's track: the tracked position
// in pixel coordinates plus the encoded location state.
type TrackFrame struct {
	SessionID  int64   `json:"session_id" db:"session_id"`
	FrameIndex int     `json:"frame_index" db:"frame_index"`
	X          float64 `json:"x" db:"pos_x"`
	Y          float64 `json:"y" db:"pos_y"`
	State      int     `json:"state" db:"state"`
}

// MovementStats summarizes a session's trajectory in physical units.
type MovementStats struct {
	PathLengthCM      float64 `json:"path_length_cm"`
	NetDisplacementCM float64 `json:"net_displacement_cm"`
	MeanSpeedCMS      float64 `json:"mean_speed_cms"`
	FrameCount        int     `json:"frame_count"`
}
