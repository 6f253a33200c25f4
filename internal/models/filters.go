package models

// SessionFilter represents filter parameters for querying sessions
type SessionFilter struct {
	Name           string `form:"name"`           // substring match
	StatesComputed *bool  `form:"statesComputed"` // unset = both
	Page           int    `form:"page"`
	PageSize       int    `form:"pageSize"`
}

// TransitionFilter represents filter parameters for transition queries
type TransitionFilter struct {
	States      []int   `form:"states"`      // allowed state codes; empty = all
	MinDuration float64 `form:"minDuration"` // seconds, strictly-greater threshold
}
