package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roster_backend/internal/models"
	"roster_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubShiftService returns canned errors so handler status mapping can be
// exercised without a real service behind it.
type stubShiftService struct {
	err error
}

func (s *stubShiftService) CreateShift(scheduleID int64, req services.CreateScheduleShiftRequest) (*models.ScheduleShift, error) {
	return nil, s.err
}

func (s *stubShiftService) GetShiftsBySchedule(scheduleID int64) (*services.ScheduleShiftsResponse, error) {
	return nil, s.err
}

func (s *stubShiftService) UpdateShift(scheduleID, shiftID int64, req services.UpdateScheduleShiftRequest) (*models.ScheduleShift, error) {
	return nil, s.err
}

func (s *stubShiftService) UpdateShiftTimes(scheduleID, shiftID int64, req services.UpdateShiftTimesRequest) (*models.ScheduleShift, error) {
	return nil, s.err
}

func (s *stubShiftService) DeleteShift(scheduleID, shiftID int64) error { return s.err }

func (s *stubShiftService) ActivateScheduleShifts(scheduleID int64) error { return s.err }

func (s *stubShiftService) CopyPreviousWeek(scheduleID int64) (*services.CopyPreviousResponse, error) {
	return nil, s.err
}

func (s *stubShiftService) BulkOperations(scheduleID int64, req services.BulkOperationsRequest) (*services.BulkOperationsResponse, error) {
	return nil, s.err
}

func postCreateShift(t *testing.T, svcErr error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	handler := NewScheduleShiftHandler(&stubShiftService{err: svcErr})
	engine.POST("/schedules/:id/shifts", handler.CreateShift)

	body := `{"shiftTypeId": 1, "date": "2026-03-02"}`
	req := httptest.NewRequest(http.MethodPost, "/schedules/1/shifts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func decodeAPIError(t *testing.T, recorder *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload.Error.Code, payload.Error.Message
}

func TestCreateShiftMissingReferencesRespondNotFound(t *testing.T) {
	for _, svcErr := range []error{
		services.ErrScheduleNotFound,
		services.ErrShiftTypeNotFound,
	} {
		recorder := postCreateShift(t, svcErr)

		assert.Equal(t, http.StatusNotFound, recorder.Code, svcErr.Error())
		code, message := decodeAPIError(t, recorder)
		assert.Equal(t, "NOT_FOUND", code)
		assert.Equal(t, svcErr.Error(), message)
	}
}

func TestCreateShiftBadDateRespondsValidationFailed(t *testing.T) {
	recorder := postCreateShift(t, services.ErrShiftDateFormat)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	code, _ := decodeAPIError(t, recorder)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestCreateShiftConflictCarriesConflictingShifts(t *testing.T) {
	conflict := &services.ShiftConflictError{
		Conflicts: []services.ConflictingShift{{ID: 42}},
	}
	recorder := postCreateShift(t, conflict)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	var payload struct {
		Message   string                      `json:"message"`
		Conflicts []services.ConflictingShift `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.Len(t, payload.Conflicts, 1)
	assert.Equal(t, int64(42), payload.Conflicts[0].ID)
}
