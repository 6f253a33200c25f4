package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlab/burrowtrack/internal/database"
	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/repository"
	"github.com/burrowlab/burrowtrack/internal/transition"
)

type serviceFixture struct {
	db          *sql.DB
	sessions    *SessionService
	transitions *TransitionService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each in-memory connection is its own database; keep the pool to
	// a single connection so every query sees the migrated schema.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	sessionRepo := repository.NewSessionRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)

	return &serviceFixture{
		db:          db,
		sessions:    NewSessionService(sessionRepo, trackRepo),
		transitions: NewTransitionService(sessionRepo, trackRepo, transitionRepo),
	}
}

func (f *serviceFixture) createSession(t *testing.T, fps float64) *models.Session {
	t.Helper()

	session := &models.Session{Name: "fixture", FPS: fps, PixelSizeCM: 0.1}
	require.NoError(t, f.sessions.CreateSession(session))
	return session
}

func (f *serviceFixture) ingestStates(t *testing.T, sessionID int64, states []int) {
	t.Helper()

	inputs := make([]FrameInput, len(states))
	for i, s := range states {
		code := s
		inputs[i] = FrameInput{FrameIndex: i, State: &code}
	}
	require.NoError(t, f.sessions.IngestFrames(sessionID, inputs))
}

func TestExtractTransitionsBeforeIngest(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)

	// States were never computed for this session. This is distinct
	// from a computed-but-empty sequence and must fail loudly.
	_, err := f.transitions.ExtractTransitions(session.ID, models.TransitionFilter{})
	require.ErrorIs(t, err, transition.ErrStatesNotComputed)
}

func TestExtractTransitionsEmptySequence(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)
	f.ingestStates(t, session.ID, nil)

	aggregates, err := f.transitions.ExtractTransitions(session.ID, models.TransitionFilter{})
	require.NoError(t, err)
	assert.Empty(t, aggregates)
}

func TestExtractTransitionsMissingSession(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.transitions.ExtractTransitions(42, models.TransitionFilter{})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExtractTransitionsAggregates(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)
	f.ingestStates(t, session.ID, []int{10, 10, 10, 11, 11, 12})

	aggregates, err := f.transitions.ExtractTransitions(session.ID, models.TransitionFilter{})
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	assert.Equal(t, 10, aggregates[0].From)
	assert.Equal(t, 11, aggregates[0].To)
	assert.Equal(t, []float64{3}, aggregates[0].Durations)

	assert.Equal(t, 11, aggregates[1].From)
	assert.Equal(t, 12, aggregates[1].To)
	assert.Equal(t, []float64{2}, aggregates[1].Durations)
}

func TestExtractTransitionsMinDuration(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)
	f.ingestStates(t, session.ID, []int{10, 10, 10, 11, 11, 12})

	aggregates, err := f.transitions.ExtractTransitions(session.ID, models.TransitionFilter{MinDuration: 2})
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, 10, aggregates[0].From)
	assert.Equal(t, 11, aggregates[0].To)
}

func TestBuildGraphCategories(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)
	f.ingestStates(t, session.ID, []int{10, 10, 11, 21, 21, 10})

	summary, err := f.transitions.BuildGraph(session.ID, models.TransitionFilter{})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.Nodes)
	assert.NotEmpty(t, summary.Edges)

	categories := make(map[string]bool)
	for _, n := range summary.Nodes {
		categories[n.Category] = true
	}
	assert.True(t, categories["sand"])
	assert.True(t, categories["air"])
	assert.True(t, categories["burrow"])
}

func TestBuildGraphBeforeIngest(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)

	_, err := f.transitions.BuildGraph(session.ID, models.TransitionFilter{})
	require.ErrorIs(t, err, transition.ErrStatesNotComputed)
}

func TestIngestFramesStructuredStates(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 30)

	under := false
	inputs := []FrameInput{
		{FrameIndex: 0, Underground: &under, Location: "air"},
		{FrameIndex: 1},
	}
	require.NoError(t, f.sessions.IngestFrames(session.ID, inputs))

	states, timeScale, err := f.sessions.GetStates(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 0}, states)
	assert.InDelta(t, 1.0/30, timeScale, 1e-12)
}

func TestIngestFramesRejectsInvalidState(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 30)

	// "nest" is not a location the codec knows for surface frames.
	under := false
	inputs := []FrameInput{
		{FrameIndex: 0, Underground: &under, Location: "nest"},
	}
	err := f.sessions.IngestFrames(session.ID, inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 0")

	// Nothing was written and the session stays un-ingested.
	_, _, getErr := f.sessions.GetStates(session.ID)
	require.NoError(t, getErr)
	got, err := f.sessions.GetSession(session.ID)
	require.NoError(t, err)
	assert.False(t, got.StatesComputed)
}

func TestQueryStates(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1)
	f.ingestStates(t, session.ID, []int{10, 11, 21})

	mask, err := f.sessions.QueryStates(session.ID, "in_burrow")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, mask)
}

func TestMovementStatsScaling(t *testing.T) {
	f := newServiceFixture(t)
	session := f.createSession(t, 1) // pixelSize 0.1 from fixture

	inputs := []FrameInput{
		{FrameIndex: 0, X: 0, Y: 0},
		{FrameIndex: 1, X: 3, Y: 4},
	}
	require.NoError(t, f.sessions.IngestFrames(session.ID, inputs))

	stats, err := f.sessions.MovementStats(session.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stats.PathLengthCM, 1e-9)
	assert.InDelta(t, 0.5, stats.NetDisplacementCM, 1e-9)
	assert.Equal(t, 2, stats.FrameCount)
}
