package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/babynest/babynest/store"
)

var taskPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

type createTaskRequest struct {
	Title    string  `json:"title"`
	DueDate  *string `json:"due_date"`
	Priority string  `json:"priority"`
}

type updateTaskRequest struct {
	Title     *string `json:"title"`
	DueDate   *string `json:"due_date"`
	Priority  *string `json:"priority"`
	Completed *bool   `json:"completed"`
}

type taskResponse struct {
	ID        int32   `json:"id"`
	UID       string  `json:"uid"`
	Title     string  `json:"title"`
	DueDate   *string `json:"due_date"`
	Priority  string  `json:"priority"`
	Completed bool    `json:"completed"`
	CreatedTs int64   `json:"created_ts"`
}

func convertTask(t *store.Task) *taskResponse {
	return &taskResponse{
		ID:        t.ID,
		UID:       t.UID,
		Title:     t.Title,
		DueDate:   t.DueDate,
		Priority:  t.Priority,
		Completed: t.Completed,
		CreatedTs: t.CreatedTs,
	}
}

// ListTasks handles GET /api/v1/tasks. Supports filtering by completion
// state and limiting the result count.
func (s *APIV1Service) ListTasks(c echo.Context) error {
	find := &store.FindTask{}
	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "completed must be true or false")
		}
		find.Completed = &completed
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			find.Limit = &limit
		}
	}
	list, err := s.Store.ListTasks(c.Request().Context(), find)
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*taskResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, convertTask(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateTask handles POST /api/v1/tasks.
func (s *APIV1Service) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()
	req := &createTaskRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !taskPriorities[req.Priority] {
		return badRequest(c, "priority must be low, medium or high")
	}
	if req.DueDate != nil {
		if _, err := time.Parse(dueDateLayout, *req.DueDate); err != nil {
			return badRequest(c, "due_date must be YYYY-MM-DD")
		}
	}
	t, err := s.Store.CreateTask(ctx, &store.Task{
		UID:      shortuuid.New(),
		Title:    req.Title,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, convertTask(t))
}

// UpdateTask handles PATCH /api/v1/tasks/:id.
func (s *APIV1Service) UpdateTask(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	req := &updateTaskRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Priority != nil && !taskPriorities[*req.Priority] {
		return badRequest(c, "priority must be low, medium or high")
	}
	t, err := s.Store.UpdateTask(ctx, &store.UpdateTask{
		ID:        id,
		Title:     req.Title,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Completed: req.Completed,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, convertTask(t))
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (s *APIV1Service) DeleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	if err := s.Store.DeleteTask(ctx, &store.DeleteTask{ID: id}); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}
