package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/store"
)

// registerTrackingRoutes mounts one CRUD group per tracking category
// under /api/v1/tracking.
func (s *APIV1Service) registerTrackingRoutes(g *echo.Group) {
	t := g.Group("/tracking")

	t.GET("/weight", s.ListWeightLogs)
	t.POST("/weight", s.CreateWeightLog)
	t.PATCH("/weight/:id", s.UpdateWeightLog)
	t.DELETE("/weight/:id", s.DeleteWeightLog)

	t.GET("/medicine", s.ListMedicineLogs)
	t.POST("/medicine", s.CreateMedicineLog)
	t.PATCH("/medicine/:id", s.UpdateMedicineLog)
	t.DELETE("/medicine/:id", s.DeleteMedicineLog)

	t.GET("/symptoms", s.ListSymptomLogs)
	t.POST("/symptoms", s.CreateSymptomLog)
	t.PATCH("/symptoms/:id", s.UpdateSymptomLog)
	t.DELETE("/symptoms/:id", s.DeleteSymptomLog)

	t.GET("/blood-pressure", s.ListBloodPressureLogs)
	t.POST("/blood-pressure", s.CreateBloodPressureLog)
	t.PATCH("/blood-pressure/:id", s.UpdateBloodPressureLog)
	t.DELETE("/blood-pressure/:id", s.DeleteBloodPressureLog)

	t.GET("/discharge", s.ListDischargeLogs)
	t.POST("/discharge", s.CreateDischargeLog)
	t.PATCH("/discharge/:id", s.UpdateDischargeLog)
	t.DELETE("/discharge/:id", s.DeleteDischargeLog)
}

func trackingID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func trackingFind(c echo.Context) *store.FindTrackingLog {
	find := &store.FindTrackingLog{}
	if raw := c.QueryParam("week"); raw != "" {
		if week, err := strconv.Atoi(raw); err == nil {
			find.WeekNumber = &week
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			find.Limit = &limit
		}
	}
	return find
}

// refreshUserDocuments re-embeds the user detail documents used for
// retrieval. Skipped when AI is disabled.
func (s *APIV1Service) refreshUserDocuments(c echo.Context) {
	if s.Vector == nil {
		return
	}
	if err := s.Vector.RefreshUserDetails(c.Request().Context()); err != nil {
		slog.Warn("failed to refresh user detail documents", "error", err)
	}
}

type weightLogRequest struct {
	WeekNumber int      `json:"week_number"`
	Weight     *float64 `json:"weight"`
	Note       *string  `json:"note"`
}

type weightLogResponse struct {
	ID         int32    `json:"id"`
	WeekNumber int      `json:"week_number"`
	Weight     *float64 `json:"weight"`
	Note       *string  `json:"note"`
	CreatedTs  int64    `json:"created_ts"`
}

func convertWeightLog(l *store.WeightLog) *weightLogResponse {
	return &weightLogResponse{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Weight:     l.Weight,
		Note:       l.Note,
		CreatedTs:  l.CreatedTs,
	}
}

func (s *APIV1Service) ListWeightLogs(c echo.Context) error {
	list, err := s.Store.ListWeightLogs(c.Request().Context(), trackingFind(c))
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*weightLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, convertWeightLog(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) CreateWeightLog(c echo.Context) error {
	ctx := c.Request().Context()
	req := &weightLogRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.WeekNumber < 1 {
		return badRequest(c, "week_number must be positive")
	}
	l, err := s.Store.CreateWeightLog(ctx, &store.WeightLog{
		WeekNumber: req.WeekNumber,
		Weight:     req.Weight,
		Note:       req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryWeight, contextcache.OperationCreate)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, convertWeightLog(l))
}

func (s *APIV1Service) UpdateWeightLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	req := &struct {
		WeekNumber *int     `json:"week_number"`
		Weight     *float64 `json:"weight"`
		Note       *string  `json:"note"`
	}{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := s.Store.UpdateWeightLog(ctx, &store.UpdateWeightLog{
		ID:         id,
		WeekNumber: req.WeekNumber,
		Weight:     req.Weight,
		Note:       req.Note,
	}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryWeight, contextcache.OperationUpdate)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (s *APIV1Service) DeleteWeightLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	if err := s.Store.DeleteWeightLog(ctx, &store.DeleteTrackingLog{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryWeight, contextcache.OperationDelete)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

type medicineLogRequest struct {
	WeekNumber int     `json:"week_number"`
	Name       *string `json:"name"`
	Dose       *string `json:"dose"`
	Time       *string `json:"time"`
	Taken      *bool   `json:"taken"`
	Note       *string `json:"note"`
}

type medicineLogResponse struct {
	ID         int32   `json:"id"`
	WeekNumber int     `json:"week_number"`
	Name       *string `json:"name"`
	Dose       *string `json:"dose"`
	Time       *string `json:"time"`
	Taken      *bool   `json:"taken"`
	Note       *string `json:"note"`
	CreatedTs  int64   `json:"created_ts"`
}

func convertMedicineLog(l *store.MedicineLog) *medicineLogResponse {
	return &medicineLogResponse{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Name:       l.Name,
		Dose:       l.Dose,
		Time:       l.Time,
		Taken:      l.Taken,
		Note:       l.Note,
		CreatedTs:  l.CreatedTs,
	}
}

func (s *APIV1Service) ListMedicineLogs(c echo.Context) error {
	list, err := s.Store.ListMedicineLogs(c.Request().Context(), trackingFind(c))
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*medicineLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, convertMedicineLog(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) CreateMedicineLog(c echo.Context) error {
	ctx := c.Request().Context()
	req := &medicineLogRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.WeekNumber < 1 {
		return badRequest(c, "week_number must be positive")
	}
	l, err := s.Store.CreateMedicineLog(ctx, &store.MedicineLog{
		WeekNumber: req.WeekNumber,
		Name:       req.Name,
		Dose:       req.Dose,
		Time:       req.Time,
		Taken:      req.Taken,
		Note:       req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryMedicine, contextcache.OperationCreate)
	return c.JSON(http.StatusOK, convertMedicineLog(l))
}

func (s *APIV1Service) UpdateMedicineLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	req := &struct {
		WeekNumber *int    `json:"week_number"`
		Name       *string `json:"name"`
		Dose       *string `json:"dose"`
		Time       *string `json:"time"`
		Taken      *bool   `json:"taken"`
		Note       *string `json:"note"`
	}{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := s.Store.UpdateMedicineLog(ctx, &store.UpdateMedicineLog{
		ID:         id,
		WeekNumber: req.WeekNumber,
		Name:       req.Name,
		Dose:       req.Dose,
		Time:       req.Time,
		Taken:      req.Taken,
		Note:       req.Note,
	}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryMedicine, contextcache.OperationUpdate)
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (s *APIV1Service) DeleteMedicineLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	if err := s.Store.DeleteMedicineLog(ctx, &store.DeleteTrackingLog{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryMedicine, contextcache.OperationDelete)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

type symptomLogRequest struct {
	WeekNumber int     `json:"week_number"`
	Symptom    *string `json:"symptom"`
	Note       *string `json:"note"`
}

type symptomLogResponse struct {
	ID         int32   `json:"id"`
	WeekNumber int     `json:"week_number"`
	Symptom    *string `json:"symptom"`
	Note       *string `json:"note"`
	CreatedTs  int64   `json:"created_ts"`
}

func convertSymptomLog(l *store.SymptomLog) *symptomLogResponse {
	return &symptomLogResponse{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Symptom:    l.Symptom,
		Note:       l.Note,
		CreatedTs:  l.CreatedTs,
	}
}

func (s *APIV1Service) ListSymptomLogs(c echo.Context) error {
	list, err := s.Store.ListSymptomLogs(c.Request().Context(), trackingFind(c))
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*symptomLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, convertSymptomLog(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) CreateSymptomLog(c echo.Context) error {
	ctx := c.Request().Context()
	req := &symptomLogRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.WeekNumber < 1 {
		return badRequest(c, "week_number must be positive")
	}
	l, err := s.Store.CreateSymptomLog(ctx, &store.SymptomLog{
		WeekNumber: req.WeekNumber,
		Symptom:    req.Symptom,
		Note:       req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategorySymptoms, contextcache.OperationCreate)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, convertSymptomLog(l))
}

func (s *APIV1Service) UpdateSymptomLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	req := &struct {
		WeekNumber *int    `json:"week_number"`
		Symptom    *string `json:"symptom"`
		Note       *string `json:"note"`
	}{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := s.Store.UpdateSymptomLog(ctx, &store.UpdateSymptomLog{
		ID:         id,
		WeekNumber: req.WeekNumber,
		Symptom:    req.Symptom,
		Note:       req.Note,
	}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategorySymptoms, contextcache.OperationUpdate)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (s *APIV1Service) DeleteSymptomLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	if err := s.Store.DeleteSymptomLog(ctx, &store.DeleteTrackingLog{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategorySymptoms, contextcache.OperationDelete)
	s.refreshUserDocuments(c)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

type bloodPressureLogRequest struct {
	WeekNumber int     `json:"week_number"`
	Systolic   *int    `json:"systolic"`
	Diastolic  *int    `json:"diastolic"`
	Time       *string `json:"time"`
	Note       *string `json:"note"`
}

type bloodPressureLogResponse struct {
	ID         int32   `json:"id"`
	WeekNumber int     `json:"week_number"`
	Systolic   *int    `json:"systolic"`
	Diastolic  *int    `json:"diastolic"`
	Time       *string `json:"time"`
	Note       *string `json:"note"`
	CreatedTs  int64   `json:"created_ts"`
}

func convertBloodPressureLog(l *store.BloodPressureLog) *bloodPressureLogResponse {
	return &bloodPressureLogResponse{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Systolic:   l.Systolic,
		Diastolic:  l.Diastolic,
		Time:       l.Time,
		Note:       l.Note,
		CreatedTs:  l.CreatedTs,
	}
}

func (s *APIV1Service) ListBloodPressureLogs(c echo.Context) error {
	list, err := s.Store.ListBloodPressureLogs(c.Request().Context(), trackingFind(c))
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*bloodPressureLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, convertBloodPressureLog(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) CreateBloodPressureLog(c echo.Context) error {
	ctx := c.Request().Context()
	req := &bloodPressureLogRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.WeekNumber < 1 {
		return badRequest(c, "week_number must be positive")
	}
	l, err := s.Store.CreateBloodPressureLog(ctx, &store.BloodPressureLog{
		WeekNumber: req.WeekNumber,
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		Time:       req.Time,
		Note:       req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryBloodPressure, contextcache.OperationCreate)
	return c.JSON(http.StatusOK, convertBloodPressureLog(l))
}

func (s *APIV1Service) UpdateBloodPressureLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	req := &struct {
		WeekNumber *int    `json:"week_number"`
		Systolic   *int    `json:"systolic"`
		Diastolic  *int    `json:"diastolic"`
		Time       *string `json:"time"`
		Note       *string `json:"note"`
	}{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := s.Store.UpdateBloodPressureLog(ctx, &store.UpdateBloodPressureLog{
		ID:         id,
		WeekNumber: req.WeekNumber,
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		Time:       req.Time,
		Note:       req.Note,
	}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryBloodPressure, contextcache.OperationUpdate)
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (s *APIV1Service) DeleteBloodPressureLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	if err := s.Store.DeleteBloodPressureLog(ctx, &store.DeleteTrackingLog{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryBloodPressure, contextcache.OperationDelete)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

type dischargeLogRequest struct {
	WeekNumber int     `json:"week_number"`
	Type       *string `json:"type"`
	Color      *string `json:"color"`
	Bleeding   *string `json:"bleeding"`
	Note       *string `json:"note"`
}

type dischargeLogResponse struct {
	ID         int32   `json:"id"`
	WeekNumber int     `json:"week_number"`
	Type       *string `json:"type"`
	Color      *string `json:"color"`
	Bleeding   *string `json:"bleeding"`
	Note       *string `json:"note"`
	CreatedTs  int64   `json:"created_ts"`
}

func convertDischargeLog(l *store.DischargeLog) *dischargeLogResponse {
	return &dischargeLogResponse{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Type:       l.Type,
		Color:      l.Color,
		Bleeding:   l.Bleeding,
		Note:       l.Note,
		CreatedTs:  l.CreatedTs,
	}
}

func (s *APIV1Service) ListDischargeLogs(c echo.Context) error {
	list, err := s.Store.ListDischargeLogs(c.Request().Context(), trackingFind(c))
	if err != nil {
		return internalError(c, err)
	}
	resp := make([]*dischargeLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, convertDischargeLog(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) CreateDischargeLog(c echo.Context) error {
	ctx := c.Request().Context()
	req := &dischargeLogRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.WeekNumber < 1 {
		return badRequest(c, "week_number must be positive")
	}
	l, err := s.Store.CreateDischargeLog(ctx, &store.DischargeLog{
		WeekNumber: req.WeekNumber,
		Type:       req.Type,
		Color:      req.Color,
		Bleeding:   req.Bleeding,
		Note:       req.Note,
	})
	if err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryDischarge, contextcache.OperationCreate)
	return c.JSON(http.StatusOK, convertDischargeLog(l))
}

func (s *APIV1Service) UpdateDischargeLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	req := &struct {
		WeekNumber *int    `json:"week_number"`
		Type       *string `json:"type"`
		Color      *string `json:"color"`
		Bleeding   *string `json:"bleeding"`
		Note       *string `json:"note"`
	}{}
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := s.Store.UpdateDischargeLog(ctx, &store.UpdateDischargeLog{
		ID:         id,
		WeekNumber: req.WeekNumber,
		Type:       req.Type,
		Color:      req.Color,
		Bleeding:   req.Bleeding,
		Note:       req.Note,
	}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryDischarge, contextcache.OperationUpdate)
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (s *APIV1Service) DeleteDischargeLog(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := trackingID(c)
	if err != nil {
		return badRequest(c, "invalid log id")
	}
	if err := s.Store.DeleteDischargeLog(ctx, &store.DeleteTrackingLog{ID: id}); err != nil {
		return internalError(c, err)
	}
	s.refreshCache(ctx, contextcache.CategoryDischarge, contextcache.OperationDelete)
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}
