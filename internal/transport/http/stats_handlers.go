package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/config"
	"github.com/vovakirdan/groupstats/internal/core"
	"github.com/vovakirdan/groupstats/internal/history"
	"github.com/vovakirdan/groupstats/internal/stats"
)

// maxLimit caps the history window a single API request may ask for.
const maxLimit = 10000

// StatsService loads groups and group statistics from upstream.
type StatsService interface {
	Groups(ctx context.Context) ([]core.Group, error)
	Load(ctx context.Context, groupID string, limit int) (*stats.Engine, history.History, error)
}

// StatsHandlers provides HTTP handlers for the stats API.
type StatsHandlers struct {
	svc         StatsService
	maxMessages int
	topMessages int
	log         *zerolog.Logger
}

// NewStatsHandlers creates a new stats handlers instance.
func NewStatsHandlers(svc StatsService, cfg *config.Config, logger *zerolog.Logger) *StatsHandlers {
	return &StatsHandlers{
		svc:         svc,
		maxMessages: cfg.MaxMessages,
		topMessages: cfg.TopMessages,
		log:         logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ListGroups returns the groups visible to the configured token.
// GET /api/groups
func (h *StatsHandlers) ListGroups(c *gin.Context) {
	groups, err := h.svc.Groups(c.Request.Context())
	if err != nil {
		h.writeUpstreamError(c, err, "")
		return
	}

	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, GroupResponse{ID: g.ID, Name: g.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// GroupStats computes statistics over the group's recent history.
// GET /api/groups/:id/stats?limit=N
func (h *StatsHandlers) GroupStats(c *gin.Context) {
	groupID := c.Param("id")

	limit := h.maxMessages
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be an integer between 0 and " + strconv.Itoa(maxLimit),
				Code:  core.ErrCodeBadRequest,
			})
			return
		}
		limit = n
	}

	engine, hist, err := h.svc.Load(c.Request.Context(), groupID, limit)
	if err != nil {
		h.writeUpstreamError(c, err, groupID)
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(groupID, engine, hist, h.topMessages))
}

func (h *StatsHandlers) writeUpstreamError(c *gin.Context, err error, groupID string) {
	if core.IsFetchError(err) {
		h.log.Warn().Err(err).Str("group_id", groupID).Msg("upstream request failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream request failed", Code: core.ErrCodeFetch})
		return
	}
	h.log.Error().Err(err).Str("group_id", groupID).Msg("failed to load stats")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
