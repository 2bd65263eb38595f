package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/babynest/babynest/store"
)

var appointmentStatuses = map[string]bool{
	"upcoming":  true,
	"completed": true,
	"cancelled": true,
}

type createAppointmentRequest struct {
	Title string  `json:"title"`
	Date  string  `json:"date"`
	Time  *string `json:"time"`
	Note  *string `json:"note"`
}

type updateAppointmentRequest struct {
	Title  *string `json:"title"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Status *string `json:"status"`
	Note   *string `json:"note"`
}

type appointmentResponse struct {
	ID        int32   `json:"id"`
	UID       string  `json:"uid"`
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Time      *string `json:"time"`
	Status    string  `json:"status"`
	Note      *string `json:"note"`
	CreatedTs int64   `json:"created_ts"`
}

func convertAppointment(a *store.Appointment) *appointmentResponse {
	return &appointmentResponse{
		ID:        a.ID,
		UID:       a.UID,
		Title:     a.Title,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Note:      a.Note,
		CreatedTs: a.CreatedTs,
	}
}

// ListAppointments handles GET /api/v1/appointments. Supports filtering
// by status and limiting the result count.
func (s *APIV1Service) ListAppointments(c echo.Context) error {
	find := &store.FindAppointment{}
	if status := c.QueryParam("status"); status != "" {
		if !appointmentStatuses[status] {
			return badRequest(c, "status must be upcoming, completed or cancelled")
		}
		find.Status = &status
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			find.Limit = &limit
		}
	}
	list, err := s.Store.ListAppointments(c.Request().Context(), find)
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*appointmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, convertAppointment(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateAppointment handles POST /api/v1/appointments.
func (s *APIV1Service) CreateAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	req := &createAppointmentRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	if _, err := time.Parse(dueDateLayout, req.Date); err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	a, err := s.Store.CreateAppointment(ctx, &store.Appointment{
		UID:    shortuuid.New(),
		Title:  req.Title,
		Date:   req.Date,
		Time:   req.Time,
		Status: "upcoming",
		Note:   req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, convertAppointment(a))
}

// UpdateAppointment handles PATCH /api/v1/appointments/:id.
func (s *APIV1Service) UpdateAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}
	req := &updateAppointmentRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Status != nil && !appointmentStatuses[*req.Status] {
		return badRequest(c, "status must be upcoming, completed or cancelled")
	}
	if req.Date != nil {
		if _, err := time.Parse(dueDateLayout, *req.Date); err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
	}
	a, err := s.Store.UpdateAppointment(ctx, &store.UpdateAppointment{
		ID:     id,
		Title:  req.Title,
		Date:   req.Date,
		Time:   req.Time,
		Status: req.Status,
		Note:   req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, convertAppointment(a))
}

// DeleteAppointment handles DELETE /api/v1/appointments/:id.
func (s *APIV1Service) DeleteAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}
	if err := s.Store.DeleteAppointment(ctx, &store.DeleteAppointment{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}
