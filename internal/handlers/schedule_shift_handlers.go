package handlers

import (
	"errors"
	"net/http"

	"roster_backend/internal/services"
	"roster_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleShiftHandler holds the schedule shift service.
type ScheduleShiftHandler struct {
	shiftService services.ScheduleShiftService
}

// NewScheduleShiftHandler creates a new ScheduleShiftHandler.
func NewScheduleShiftHandler(ss services.ScheduleShiftService) *ScheduleShiftHandler {
	return &ScheduleShiftHandler{shiftService: ss}
}

// respondShiftConflict renders a 409 with the conflicting shifts attached so
// the client can show which assignments collide.
func respondShiftConflict(c *gin.Context, conflictErr *services.ShiftConflictError) {
	c.JSON(http.StatusConflict, gin.H{
		"message":   conflictErr.Error(),
		"conflicts": conflictErr.Conflicts,
	})
}

func (h *ScheduleShiftHandler) respondShiftError(c *gin.Context, err error, operation string) {
	var conflictErr *services.ShiftConflictError
	if errors.As(err, &conflictErr) {
		respondShiftConflict(c, conflictErr)
		return
	}

	if errors.Is(err, services.ErrScheduleNotFound) ||
		errors.Is(err, services.ErrScheduleShiftNotFound) ||
		errors.Is(err, services.ErrShiftTypeNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	} else if errors.Is(err, services.ErrShiftDateFormat) ||
		errors.Is(err, services.ErrShiftTimeFormat) ||
		errors.Is(err, services.ErrShiftNotActive) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	} else if errors.Is(err, services.ErrNoPublishedSchedule) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	} else {
		utils.LogError(err, operation+": Error from shiftService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process shift operation.", "Internal error"))
	}
}

// CreateShift handles adding a single shift to a schedule.
func (h *ScheduleShiftHandler) CreateShift(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateScheduleShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateShift: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.CreateShift(scheduleID, req)
	if err != nil {
		h.respondShiftError(c, err, "CreateShift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// GetShifts handles fetching all shifts of a schedule, split into assigned
// and unassigned groups.
func (h *ScheduleShiftHandler) GetShifts(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.shiftService.GetShiftsBySchedule(scheduleID)
	if err != nil {
		h.respondShiftError(c, err, "GetShifts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateShift handles reassigning, unassigning or reordering a shift.
func (h *ScheduleShiftHandler) UpdateShift(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "shiftId")
	if !ok {
		return
	}

	var req services.UpdateScheduleShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateShift: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.UpdateShift(scheduleID, shiftID, req)
	if err != nil {
		h.respondShiftError(c, err, "UpdateShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// UpdateShiftTimes handles adjusting the actual times of an activated shift.
func (h *ScheduleShiftHandler) UpdateShiftTimes(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "shiftId")
	if !ok {
		return
	}

	var req services.UpdateShiftTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateShiftTimes: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.UpdateShiftTimes(scheduleID, shiftID, req)
	if err != nil {
		h.respondShiftError(c, err, "UpdateShiftTimes")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// DeleteShift handles removing a shift from a schedule.
func (h *ScheduleShiftHandler) DeleteShift(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "shiftId")
	if !ok {
		return
	}

	if err := h.shiftService.DeleteShift(scheduleID, shiftID); err != nil {
		h.respondShiftError(c, err, "DeleteShift")
		return
	}
	c.Status(http.StatusNoContent)
}

// CopyPreviousWeek handles proposing shifts based on the most recent
// published schedule. Nothing is persisted.
func (h *ScheduleShiftHandler) CopyPreviousWeek(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.shiftService.CopyPreviousWeek(scheduleID)
	if err != nil {
		h.respondShiftError(c, err, "CopyPreviousWeek")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// BulkOperations handles applying a batch of shift mutations atomically.
func (h *ScheduleShiftHandler) BulkOperations(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.BulkOperationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "BulkOperations: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.shiftService.BulkOperations(scheduleID, req)
	if err != nil {
		h.respondShiftError(c, err, "BulkOperations")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
