package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/babynest/babynest/internal/errors"
)

type agentQueryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type agentQueryResponse struct {
	Response string `json:"response"`
	UserID   string `json:"user_id"`
}

type invalidateCacheRequest struct {
	UserID string `json:"user_id"`
}

// AgentQuery handles POST /api/v1/agent/query.
func (s *APIV1Service) AgentQuery(c echo.Context) error {
	ctx := c.Request().Context()
	req := &agentQueryRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	answer, err := s.Agent.Run(ctx, req.Query, userID)
	if err != nil {
		switch {
		case errors.IsCode(err, errors.ErrCodeInvalidArgument):
			return badRequest(c, err.Error())
		case errors.IsCode(err, errors.ErrCodeLLMUnavailable):
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "assistant is not available, set BABYNEST_AI_API_KEY to enable it"})
		default:
			return internalError(c, err)
		}
	}
	return c.JSON(http.StatusOK, &agentQueryResponse{
		Response: answer,
		UserID:   userID,
	})
}

// AgentContext handles GET /api/v1/agent/context. It returns the cached
// context record, building it if necessary.
func (s *APIV1Service) AgentContext(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = defaultUserID
	}
	record, err := s.Agent.Context(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if record == nil {
		return notFound(c, "no context available, profile not set")
	}
	return c.JSON(http.StatusOK, record)
}

// CacheStats handles GET /api/v1/agent/cache/stats and /cache/status.
func (s *APIV1Service) CacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Agent.CacheStats())
}

// CacheCleanup handles POST /api/v1/agent/cache/cleanup. It runs the
// disk sweep and memory trim on demand.
func (s *APIV1Service) CacheCleanup(c echo.Context) error {
	s.Agent.CleanupCache()
	return c.JSON(http.StatusOK, map[string]bool{"cleaned": true})
}

// CacheInvalidate handles POST /api/v1/agent/cache/invalidate. An empty
// user_id drops every cached record.
func (s *APIV1Service) CacheInvalidate(c echo.Context) error {
	req := &invalidateCacheRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	s.Agent.InvalidateCache(req.UserID)
	return c.JSON(http.StatusOK, map[string]bool{"invalidated": true})
}
