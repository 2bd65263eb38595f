package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/plugin/ai/agent"
	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/store"
	"github.com/babynest/babynest/store/db/sqlite"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dataDir := t.TempDir()
	p := &profile.Profile{
		Mode:    "dev",
		Data:    dataDir,
		DSN:     filepath.Join(dataDir, "test.db"),
		Driver:  "sqlite",
		Version: "test",
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	st := store.New(driver, p)

	cache, err := contextcache.New(st, filepath.Join(dataDir, "cache"), contextcache.DefaultPolicy())
	require.NoError(t, err)
	ag := agent.New(cache, st, nil, nil)

	e := echo.New()
	NewAPIV1Service(p, st, ag, nil).Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestProfileEndpoints(t *testing.T) {
	e := newTestServer(t)

	t.Run("GetBeforeSetReturnsNotFound", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/profile", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SetComputesDueDate", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/profile",
			`{"last_period_date":"2026-06-01","cycle_length":30,"age":29,"weight":64.5,"location":"Berlin"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &profileResponse{}
		decodeInto(t, rec, resp)
		// 280 days plus the 2-day cycle adjustment past 2026-06-01.
		require.NotNil(t, resp.DueDate)
		assert.Equal(t, "2027-03-10", *resp.DueDate)
		assert.Equal(t, 29, *resp.Age)
	})

	t.Run("SetRejectsMalformedDate", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/profile", `{"last_period_date":"01/06/2026"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SetRequiresLastPeriodDate", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/profile", `{"age":29}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UpdateRecomputesDueDateOnCycleChange", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/api/v1/profile", `{"cycle_length":28}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &profileResponse{}
		decodeInto(t, rec, resp)
		require.NotNil(t, resp.DueDate)
		assert.Equal(t, "2027-03-08", *resp.DueDate)
	})

	t.Run("UpdateKeepsUntouchedFields", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/api/v1/profile", `{"weight":66.0}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &profileResponse{}
		decodeInto(t, rec, resp)
		require.NotNil(t, resp.Location)
		assert.Equal(t, "Berlin", *resp.Location)
		assert.Equal(t, 66.0, *resp.Weight)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodDelete, "/api/v1/profile", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/profile", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestWeightLogEndpoints(t *testing.T) {
	e := newTestServer(t)

	t.Run("CreateAndListNewestWeekFirst", func(t *testing.T) {
		for _, week := range []int{10, 12, 11} {
			rec := doJSON(t, e, http.MethodPost, "/api/v1/tracking/weight",
				fmt.Sprintf(`{"week_number":%d,"weight":6%d.0}`, week, week%10))
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := doJSON(t, e, http.MethodGet, "/api/v1/tracking/weight", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*weightLogResponse
		decodeInto(t, rec, &list)
		require.Len(t, list, 3)
		assert.Equal(t, 12, list[0].WeekNumber)
		assert.Equal(t, 11, list[1].WeekNumber)
		assert.Equal(t, 10, list[2].WeekNumber)
	})

	t.Run("CreateRejectsZeroWeek", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/tracking/weight", `{"week_number":0,"weight":60.0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListFiltersByWeek", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/tracking/weight?week=11", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*weightLogResponse
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, 11, list[0].WeekNumber)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/tracking/weight?week=10", "")
		var list []*weightLogResponse
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)
		id := list[0].ID

		rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/tracking/weight/%d", id), `{"weight":61.5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/tracking/weight?week=10", "")
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, 61.5, *list[0].Weight)

		rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/tracking/weight/%d", id), "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/tracking/weight?week=10", "")
		decodeInto(t, rec, &list)
		assert.Empty(t, list)
	})

	t.Run("UpdateRejectsBadID", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/api/v1/tracking/weight/abc", `{"weight":61.5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBloodPressureEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/tracking/blood-pressure",
		`{"week_number":20,"systolic":118,"diastolic":76,"time":"08:30"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := &bloodPressureLogResponse{}
	decodeInto(t, rec, resp)
	assert.Equal(t, 118, *resp.Systolic)
	assert.Equal(t, 76, *resp.Diastolic)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/tracking/blood-pressure", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []*bloodPressureLogResponse
	decodeInto(t, rec, &list)
	require.Len(t, list, 1)
}

func TestAppointmentEndpoints(t *testing.T) {
	e := newTestServer(t)

	var created *appointmentResponse

	t.Run("CreateAssignsUIDAndUpcomingStatus", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/appointments",
			`{"title":"Glucose screening","date":"2026-10-12","time":"09:00"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		created = &appointmentResponse{}
		decodeInto(t, rec, created)
		assert.NotEmpty(t, created.UID)
		assert.Equal(t, "upcoming", created.Status)
	})

	t.Run("CreateRejectsMalformedDate", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/appointments",
			`{"title":"Checkup","date":"12.10.2026"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateRequiresTitle", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/appointments", `{"date":"2026-10-12"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/appointments/%d", created.ID),
			`{"status":"completed"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &appointmentResponse{}
		decodeInto(t, rec, resp)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("UpdateRejectsUnknownStatus", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/appointments/%d", created.ID),
			`{"status":"postponed"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListFiltersByStatus", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/appointments?status=completed", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*appointmentResponse
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/appointments?status=upcoming", "")
		decodeInto(t, rec, &list)
		assert.Empty(t, list)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/appointments/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/appointments", "")
		var list []*appointmentResponse
		decodeInto(t, rec, &list)
		assert.Empty(t, list)
	})
}

func TestTaskEndpoints(t *testing.T) {
	e := newTestServer(t)

	var created *taskResponse

	t.Run("CreateDefaultsToMediumPriority", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/tasks",
			`{"title":"Book birthing class","due_date":"2026-11-01"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		created = &taskResponse{}
		decodeInto(t, rec, created)
		assert.NotEmpty(t, created.UID)
		assert.Equal(t, "medium", created.Priority)
		assert.False(t, created.Completed)
	})

	t.Run("CreateRejectsUnknownPriority", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/tasks",
			`{"title":"Pack hospital bag","priority":"urgent"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CompleteAndFilter", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d", created.ID),
			`{"completed":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/tasks?completed=true", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*taskResponse
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)
		assert.True(t, list[0].Completed)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/tasks?completed=false", "")
		decodeInto(t, rec, &list)
		assert.Empty(t, list)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAgentEndpoints(t *testing.T) {
	e := newTestServer(t)

	t.Run("QueryRejectsEmptyQuery", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/agent/query", `{"query":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("QueryWithoutProfileGetsSetupNudge", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/agent/query",
			`{"query":"When is my next appointment?"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &agentQueryResponse{}
		decodeInto(t, rec, resp)
		assert.Contains(t, resp.Response, "profile")
		assert.Equal(t, defaultUserID, resp.UserID)
	})

	t.Run("ContextWithoutProfileIsNotFound", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/agent/context", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("AppointmentQueryAnswersFromStore", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/profile", `{"last_period_date":"2026-04-01"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = doJSON(t, e, http.MethodPost, "/api/v1/appointments",
			`{"title":"Anomaly scan","date":"2026-09-20","time":"10:00"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodPost, "/api/v1/agent/query",
			`{"query":"When is my next appointment with the doctor?"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := &agentQueryResponse{}
		decodeInto(t, rec, resp)
		assert.Contains(t, resp.Response, "Anomaly scan")
	})

	t.Run("ContextReturnsCachedRecord", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/agent/context", "")
		require.Equal(t, http.StatusOK, rec.Code)

		record := &contextcache.Record{}
		decodeInto(t, rec, record)
		assert.GreaterOrEqual(t, record.CurrentWeek, 1)
		assert.LessOrEqual(t, record.CurrentWeek, 40)
		require.NotNil(t, record.LMP)
		assert.Equal(t, "2026-04-01", *record.LMP)
	})

	t.Run("OpenQuestionWithoutLLMIsUnavailable", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/agent/query",
			`{"query":"Is it normal to feel dizzy sometimes?"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("CacheStats", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/agent/cache/stats", "")
		require.Equal(t, http.StatusOK, rec.Code)

		stats := &contextcache.Stats{}
		decodeInto(t, rec, stats)
		assert.Equal(t, 10, stats.MaxTrackingEntries)
		assert.GreaterOrEqual(t, stats.MemoryCacheSize, 1)
	})

	t.Run("CacheInvalidateAndCleanup", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/agent/cache/invalidate", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, e, http.MethodGet, "/api/v1/agent/cache/stats", "")
		stats := &contextcache.Stats{}
		decodeInto(t, rec, stats)
		assert.Equal(t, 0, stats.MemoryCacheSize)

		rec = doJSON(t, e, http.MethodPost, "/api/v1/agent/cache/cleanup", `{}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
