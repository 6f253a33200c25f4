package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlab/burrowtrack/internal/database"
	"github.com/burrowlab/burrowtrack/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each in-memory connection is its own database; keep the pool to
	// a single connection so every query sees the migrated schema.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestSession(t *testing.T, db *sql.DB) *models.Session {
	t.Helper()

	repo := NewSessionRepository(db)
	session := &models.Session{
		Name:        "test-session",
		FPS:         30,
		PixelSizeCM: 0.05,
	}
	require.NoError(t, repo.Create(session))
	require.NotZero(t, session.ID)
	return session
}

func TestSessionRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	session := newTestSession(t, db)

	got, err := repo.GetByID(session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test-session", got.Name)
	assert.Equal(t, 30.0, got.FPS)
	assert.False(t, got.StatesComputed)
}

func TestSessionRepositoryGetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	got, err := repo.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	a := &models.Session{Name: "morning-run", FPS: 30}
	b := &models.Session{Name: "evening-run", FPS: 25}
	require.NoError(t, repo.Create(a))
	require.NoError(t, repo.Create(b))
	require.NoError(t, repo.MarkStatesComputed(a.ID, 10))

	sessions, total, err := repo.List(models.SessionFilter{Name: "morning"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessions, 1)
	assert.Equal(t, a.ID, sessions[0].ID)

	computed := true
	sessions, total, err = repo.List(models.SessionFilter{StatesComputed: &computed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessions, 1)
	assert.Equal(t, a.ID, sessions[0].ID)
	assert.Equal(t, 10, sessions[0].FrameCount)
}

func TestSessionRepositoryListComputedIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	a := &models.Session{Name: "a", FPS: 30}
	b := &models.Session{Name: "b", FPS: 30}
	require.NoError(t, repo.Create(a))
	require.NoError(t, repo.Create(b))
	require.NoError(t, repo.MarkStatesComputed(b.ID, 3))

	ids, err := repo.ListComputedIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids)
}

func TestTrackRepositoryReplaceFrames(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db)
	repo := NewTrackRepository(db)

	first := []models.TrackFrame{
		{SessionID: session.ID, FrameIndex: 0, X: 1, Y: 2, State: 10},
		{SessionID: session.ID, FrameIndex: 1, X: 3, Y: 4, State: 11},
	}
	require.NoError(t, repo.ReplaceFrames(session.ID, first))

	// Replacing must not accumulate old frames.
	second := []models.TrackFrame{
		{SessionID: session.ID, FrameIndex: 0, X: 5, Y: 6, State: 21},
	}
	require.NoError(t, repo.ReplaceFrames(session.ID, second))

	count, err := repo.CountFrames(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	states, err := repo.GetStates(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{21}, states)

	points, err := repo.GetPositions(session.ID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 5.0, points[0].X)
	assert.Equal(t, 6.0, points[0].Y)
}

func TestTrackRepositoryStateOrder(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db)
	repo := NewTrackRepository(db)

	// Insert out of order; reads must come back in frame order.
	frames := []models.TrackFrame{
		{SessionID: session.ID, FrameIndex: 2, State: 12},
		{SessionID: session.ID, FrameIndex: 0, State: 10},
		{SessionID: session.ID, FrameIndex: 1, State: 11},
	}
	require.NoError(t, repo.ReplaceFrames(session.ID, frames))

	states, err := repo.GetStates(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, states)
}

func TestTransitionRepositoryReplaceForSession(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db)
	repo := NewTransitionRepository(db)

	rows := []models.StateTransition{
		{FromState: 10, ToState: 11, DurationSeconds: 0.1, FrameIndex: 3},
		{FromState: 11, ToState: 12, DurationSeconds: 0.2, FrameIndex: 5},
	}
	require.NoError(t, repo.ReplaceForSession(session.ID, "v1", rows))

	// Re-running the analyzer overwrites instead of duplicating.
	require.NoError(t, repo.ReplaceForSession(session.ID, "v1", rows[:1]))

	got, err := repo.GetBySession(session.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].FromState)
	assert.Equal(t, 11, got[0].ToState)
	assert.Equal(t, "v1", got[0].AlgoVersion)
}

func TestTransitionRepositoryDwellStats(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db)
	repo := NewTransitionRepository(db)

	stats := []models.DwellStat{
		{State: 21, Category: "burrow", TotalSeconds: 4.5, MeanSeconds: 1.5, MedianSeconds: 1.0, RunCount: 3},
		{State: 11, Category: "air", TotalSeconds: 2.0, MeanSeconds: 2.0, MedianSeconds: 2.0, RunCount: 1},
	}
	require.NoError(t, repo.ReplaceDwellForSession(session.ID, "v1", stats))

	got, err := repo.GetDwellBySession(session.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by category.
	assert.Equal(t, "air", got[0].Category)
	assert.Equal(t, "burrow", got[1].Category)
	assert.Equal(t, 3, got[1].RunCount)
	assert.Equal(t, 1.0, got[1].MedianSeconds)
}

func TestBurrowRepositoryInsertAndGet(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db)
	repo := NewBurrowRepository(db)

	samples := []models.BurrowSample{
		{SessionID: session.ID, BurrowID: 2, FrameIndex: 0, LengthPX: 40},
		{SessionID: session.ID, BurrowID: 1, FrameIndex: 1, LengthPX: 25},
		{SessionID: session.ID, BurrowID: 1, FrameIndex: 0, LengthPX: 20},
	}
	require.NoError(t, repo.InsertSamples(samples))

	got, err := repo.GetBySession(session.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Ordered by burrow then frame.
	assert.Equal(t, 1, got[0].BurrowID)
	assert.Equal(t, 0, got[0].FrameIndex)
	assert.Equal(t, 1, got[1].BurrowID)
	assert.Equal(t, 1, got[1].FrameIndex)
	assert.Equal(t, 2, got[2].BurrowID)
}

func TestBurrowRepositoryEmptyInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewBurrowRepository(db)

	require.NoError(t, repo.InsertSamples(nil))
}
