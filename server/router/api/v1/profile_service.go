package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/store"
)

const dueDateLayout = "2006-01-02"

// Naegele's rule with cycle adjustment: due date is LMP plus 280 days,
// shifted by the deviation of the cycle length from the 28-day baseline.
const (
	gestationDays       = 280
	baselineCycleLength = 28
)

type setProfileRequest struct {
	LMP          string   `json:"last_period_date"`
	CycleLength  *int     `json:"cycle_length"`
	PeriodLength *int     `json:"period_length"`
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Location     *string  `json:"location"`
}

type updateProfileRequest struct {
	LMP          *string  `json:"last_period_date"`
	CycleLength  *int     `json:"cycle_length"`
	PeriodLength *int     `json:"period_length"`
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Location     *string  `json:"location"`
}

type profileResponse struct {
	ID           int32    `json:"id"`
	LMP          *string  `json:"last_period_date"`
	CycleLength  *int     `json:"cycle_length"`
	PeriodLength *int     `json:"period_length"`
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Location     *string  `json:"location"`
	DueDate      *string  `json:"due_date"`
}

func convertProfile(p *store.PregnancyProfile) *profileResponse {
	return &profileResponse{
		ID:           p.ID,
		LMP:          p.LMP,
		CycleLength:  p.CycleLength,
		PeriodLength: p.PeriodLength,
		Age:          p.Age,
		Weight:       p.Weight,
		Location:     p.Location,
		DueDate:      p.DueDate,
	}
}

func computeDueDate(lmp string, cycleLength *int) (string, error) {
	start, err := time.Parse(dueDateLayout, lmp)
	if err != nil {
		return "", err
	}
	adjustment := 0
	if cycleLength != nil {
		adjustment = *cycleLength - baselineCycleLength
	}
	due := start.AddDate(0, 0, gestationDays+adjustment)
	return due.Format(dueDateLayout), nil
}

// GetProfile handles GET /api/v1/profile.
func (s *APIV1Service) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := s.Store.GetPregnancyProfile(ctx)
	if err != nil {
		return internalError(c, err)
	}
	if p == nil {
		return notFound(c, "profile not set")
	}
	return c.JSON(http.StatusOK, convertProfile(p))
}

// SetProfile handles POST /api/v1/profile. It replaces any existing
// profile and derives the due date from the last period date.
func (s *APIV1Service) SetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	req := &setProfileRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.LMP == "" {
		return badRequest(c, "last_period_date is required")
	}
	dueDate, err := computeDueDate(req.LMP, req.CycleLength)
	if err != nil {
		return badRequest(c, "last_period_date must be YYYY-MM-DD")
	}

	p, err := s.Store.SetPregnancyProfile(ctx, &store.PregnancyProfile{
		LMP:          &req.LMP,
		CycleLength:  req.CycleLength,
		PeriodLength: req.PeriodLength,
		Age:          req.Age,
		Weight:       req.Weight,
		Location:     req.Location,
		DueDate:      &dueDate,
	})
	if err != nil {
		return internalError(c, err)
	}

	s.refreshCache(ctx, contextcache.CategoryProfile, contextcache.OperationCreate)
	return c.JSON(http.StatusOK, convertProfile(p))
}

// UpdateProfile handles PATCH /api/v1/profile. Changing the last period
// date or cycle length recomputes the due date.
func (s *APIV1Service) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	req := &updateProfileRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}

	existing, err := s.Store.GetPregnancyProfile(ctx)
	if err != nil {
		return internalError(c, err)
	}
	if existing == nil {
		return notFound(c, "profile not set")
	}

	update := &store.UpdatePregnancyProfile{
		LMP:          req.LMP,
		CycleLength:  req.CycleLength,
		PeriodLength: req.PeriodLength,
		Age:          req.Age,
		Weight:       req.Weight,
		Location:     req.Location,
	}
	if req.LMP != nil || req.CycleLength != nil {
		lmp := existing.LMP
		if req.LMP != nil {
			lmp = req.LMP
		}
		cycleLength := existing.CycleLength
		if req.CycleLength != nil {
			cycleLength = req.CycleLength
		}
		if lmp != nil {
			dueDate, err := computeDueDate(*lmp, cycleLength)
			if err != nil {
				return badRequest(c, "last_period_date must be YYYY-MM-DD")
			}
			update.DueDate = &dueDate
		}
	}

	p, err := s.Store.UpdatePregnancyProfile(ctx, update)
	if err != nil {
		return internalError(c, err)
	}

	s.refreshCache(ctx, contextcache.CategoryProfile, contextcache.OperationUpdate)
	return c.JSON(http.StatusOK, convertProfile(p))
}

// DeleteProfile handles DELETE /api/v1/profile.
func (s *APIV1Service) DeleteProfile(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.Store.DeletePregnancyProfile(ctx); err != nil {
		return internalError(c, err)
	}
	s.Agent.InvalidateCache(defaultUserID)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

// refreshCache updates the agent context cache after a mutation. Cache
// staleness is tolerable, so failures are logged rather than surfaced
// to the client.
func (s *APIV1Service) refreshCache(ctx context.Context, category contextcache.Category, operation contextcache.Operation) {
	if err := s.Agent.UpdateCache(ctx, defaultUserID, category, operation); err != nil {
		slog.Warn("failed to refresh context cache", "category", category, "error", err)
	}
}
