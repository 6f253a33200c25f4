package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/service"
	"github.com/burrowlab/burrowtrack/internal/state"
	"github.com/burrowlab/burrowtrack/pkg/response"
)

// SessionHandler handles HTTP requests for tracking sessions
type SessionHandler struct {
	sessions *service.SessionService
	burrows  *service.BurrowService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, burrows *service.BurrowService) *SessionHandler {
	return &SessionHandler{sessions: sessions, burrows: burrows}
}

// sessionID parses the :id path parameter.
func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid session ID", err)
		return 0, false
	}
	return id, true
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	sessions, total, err := h.sessions.ListSessions(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}

	response.Success(c, gin.H{
		"data":     sessions,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
	})
}

// CreateSessionRequest is the body for POST /api/v1/sessions
type CreateSessionRequest struct {
	Name        string  `json:"name" binding:"required"`
	FPS         float64 `json:"fps"`
	PixelSizeCM float64 `json:"pixel_size_cm"`
	Notes       string  `json:"notes"`
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session := &models.Session{
		Name:        req.Name,
		FPS:         req.FPS,
		PixelSizeCM: req.PixelSizeCM,
		Notes:       req.Notes,
	}
	if err := h.sessions.CreateSession(session); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	response.Success(c, session)
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get session", err)
		return
	}

	response.Success(c, session)
}

// GetStates handles GET /api/v1/sessions/:id/states
func (h *SessionHandler) GetStates(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	states, timeScale, err := h.sessions.GetStates(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get states", err)
		return
	}

	if states == nil {
		states = []int{}
	}
	response.Success(c, gin.H{
		"states":     states,
		"time_scale": timeScale,
	})
}

// QueryStates handles GET /api/v1/sessions/:id/states/query?q=in_air
func (h *SessionHandler) QueryStates(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	result, err := h.sessions.QueryStates(id, query)
	if err != nil {
		var unknown *state.UnknownQueryError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, "Session not found", nil)
		case errors.As(err, &unknown):
			response.Error(c, http.StatusBadRequest, "Unknown state query", err)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to query states", err)
		}
		return
	}

	if result == nil {
		result = []bool{}
	}
	response.Success(c, gin.H{
		"query":  query,
		"result": result,
	})
}

// IngestFrames handles PUT /api/v1/sessions/:id/frames
func (h *SessionHandler) IngestFrames(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var frames []service.FrameInput
	if err := c.ShouldBindJSON(&frames); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.sessions.IngestFrames(id, frames)
	if err != nil {
		var invalid *state.InvalidStateError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, "Session not found", nil)
		case errors.As(err, &invalid):
			response.Error(c, http.StatusBadRequest, "Invalid location state", err)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to ingest frames", err)
		}
		return
	}

	response.Success(c, gin.H{"frames": len(frames)})
}

// Movement handles GET /api/v1/sessions/:id/movement
func (h *SessionHandler) Movement(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	stats, err := h.sessions.MovementStats(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to compute movement stats", err)
		return
	}

	response.Success(c, stats)
}

// GetBurrows handles GET /api/v1/sessions/:id/burrows
func (h *SessionHandler) GetBurrows(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	tracks, err := h.burrows.GetBurrowTracks(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get burrow tracks", err)
		return
	}

	if tracks == nil {
		tracks = []models.BurrowTrack{}
	}
	response.Success(c, tracks)
}

// AddBurrowSamples handles POST /api/v1/sessions/:id/burrows
func (h *SessionHandler) AddBurrowSamples(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var samples []models.BurrowSample
	if err := c.ShouldBindJSON(&samples); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.burrows.AddSamples(id, samples)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to add burrow samples", err)
		return
	}

	response.Success(c, gin.H{"samples": len(samples)})
}
