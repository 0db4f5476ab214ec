package handlers

import (
	"errors"
	"net/http"

	"roster_backend/internal/services"
	"roster_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TimeClockHandler holds the time clock service.
type TimeClockHandler struct {
	timeClockService services.TimeClockService
}

// NewTimeClockHandler creates a new TimeClockHandler.
func NewTimeClockHandler(tcs services.TimeClockService) *TimeClockHandler {
	return &TimeClockHandler{timeClockService: tcs}
}

func authenticatedUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return 0, false
	}
	return userID.(int64), true
}

// ClockIn handles starting a punch session for the authenticated user.
func (h *TimeClockHandler) ClockIn(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	// An empty body is fine for a punch.
	var req services.ClockActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = services.ClockActionRequest{}
	}

	entry, err := h.timeClockService.ClockIn(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyClockedIn) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		} else {
			utils.LogError(err, "ClockIn: Error from timeClockService.ClockIn")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clock in.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ClockOut handles closing the open punch session for the authenticated user.
func (h *TimeClockHandler) ClockOut(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req services.ClockActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = services.ClockActionRequest{}
	}

	entry, err := h.timeClockService.ClockOut(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrNotClockedIn) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		} else {
			utils.LogError(err, "ClockOut: Error from timeClockService.ClockOut")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clock out.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetStatus returns whether the authenticated user is currently clocked in.
func (h *TimeClockHandler) GetStatus(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	status, err := h.timeClockService.GetStatus(userID)
	if err != nil {
		utils.LogError(err, "GetStatus: Error from timeClockService.GetStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch time clock status.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetEntries returns the authenticated user's punch history.
func (h *TimeClockHandler) GetEntries(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var filters services.TimeClockEntriesFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.timeClockService.GetEntries(userID, filters)
	if err != nil {
		if errors.Is(err, services.ErrShiftDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "GetEntries: Error from timeClockService.GetEntries")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch time clock entries.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
