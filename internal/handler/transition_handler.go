package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/burrowlab/burrowtrack/internal/models"
	"github.com/burrowlab/burrowtrack/internal/service"
	"github.com/burrowlab/burrowtrack/internal/transition"
	"github.com/burrowlab/burrowtrack/pkg/response"
)

// TransitionHandler handles HTTP requests for transition analysis
type TransitionHandler struct {
	service *service.TransitionService
}

// NewTransitionHandler creates a new transition handler
func NewTransitionHandler(service *service.TransitionService) *TransitionHandler {
	return &TransitionHandler{service: service}
}

// transitionFilter parses the shared query parameters
// ?minDuration=1.5&states=10,11,12
func transitionFilter(c *gin.Context) (models.TransitionFilter, error) {
	var filter models.TransitionFilter

	if raw := c.Query("minDuration"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, err
		}
		filter.MinDuration = v
	}

	if raw := c.Query("states"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return filter, err
			}
			filter.States = append(filter.States, v)
		}
	}

	return filter, nil
}

// respondTransitionError maps analysis errors to HTTP statuses.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, transition.ErrStatesNotComputed):
		// Distinct from an empty sequence: the upstream ingest has not
		// produced the per-frame states yet.
		response.Error(c, http.StatusConflict, "Per-frame states have not been computed for this session", err)
	case errors.Is(err, transition.ErrZeroMeanDuration):
		response.Error(c, http.StatusUnprocessableEntity, "Transition rate undefined for a zero mean dwell", err)
	default:
		response.Error(c, http.StatusInternalServerError, "Transition analysis failed", err)
	}
}

// GetTransitions handles GET /api/v1/sessions/:id/transitions
func (h *TransitionHandler) GetTransitions(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	filter, err := transitionFilter(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	aggregates, err := h.service.ExtractTransitions(id, filter)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transitions": aggregates,
		"count":       len(aggregates),
	})
}

// GetGraph handles GET /api/v1/sessions/:id/transitions/graph
func (h *TransitionHandler) GetGraph(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	filter, err := transitionFilter(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	summary, err := h.service.BuildGraph(id, filter)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if summary.Nodes == nil {
		summary.Nodes = []transition.Node{}
	}
	if summary.Edges == nil {
		summary.Edges = []transition.Edge{}
	}
	response.Success(c, summary)
}

// GetPersisted handles GET /api/v1/sessions/:id/transitions/persisted
func (h *TransitionHandler) GetPersisted(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	transitions, err := h.service.GetPersisted(id)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if transitions == nil {
		transitions = []models.StateTransition{}
	}
	response.Success(c, transitions)
}

// GetDwellStats handles GET /api/v1/sessions/:id/dwell
func (h *TransitionHandler) GetDwellStats(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	stats, err := h.service.GetDwellStats(id)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if stats == nil {
		stats = []models.DwellStat{}
	}
	response.Success(c, stats)
}
