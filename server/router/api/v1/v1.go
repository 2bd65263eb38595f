// Package v1 exposes the REST API: profile and tracking CRUD, the
// appointment and task planners, and the agent query surface. Every
// mutation hooks the agent's context cache update so the next query
// sees current data.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/plugin/ai/agent"
	"github.com/babynest/babynest/plugin/ai/vector"
	"github.com/babynest/babynest/store"
)

// defaultUserID keys the cache for the single-user deployment model.
// CRUD routes do not carry a user; agent queries may override it.
const defaultUserID = "default"

// APIV1Service registers and serves the v1 REST routes.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Agent   *agent.Agent
	// Vector is nil when AI is disabled; user detail refresh is skipped.
	Vector *vector.Store
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, agent *agent.Agent, vector *vector.Store) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Agent:   agent,
		Vector:  vector,
	}
}

// Register mounts the v1 routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.GET("/profile", s.GetProfile)
	g.POST("/profile", s.SetProfile)
	g.PATCH("/profile", s.UpdateProfile)
	g.DELETE("/profile", s.DeleteProfile)

	s.registerTrackingRoutes(g)

	g.GET("/appointments", s.ListAppointments)
	g.POST("/appointments", s.CreateAppointment)
	g.PATCH("/appointments/:id", s.UpdateAppointment)
	g.DELETE("/appointments/:id", s.DeleteAppointment)

	g.GET("/tasks", s.ListTasks)
	g.POST("/tasks", s.CreateTask)
	g.PATCH("/tasks/:id", s.UpdateTask)
	g.DELETE("/tasks/:id", s.DeleteTask)

	g.POST("/agent", s.AgentQuery)
	g.POST("/agent/query", s.AgentQuery)
	g.GET("/agent/context", s.AgentContext)
	g.GET("/agent/cache/status", s.CacheStats)
	g.GET("/agent/cache/stats", s.CacheStats)
	g.POST("/agent/cache/cleanup", s.CacheCleanup)
	g.POST("/agent/cache/invalidate", s.CacheInvalidate)
}

type errorResponse struct {
	Message string `json:"message"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Message: message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Message: message})
}

func internalError(c echo.Context, err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
