package handlers

import (
	"errors"
	"net/http"

	"roster_backend/internal/models"
	"roster_backend/internal/services"
	"roster_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler holds the schedule service.
type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

// CreateSchedule handles the creation of a new schedule in draft status.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateSchedule: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(req, userID.(int64))
	if err != nil {
		utils.LogError(err, "CreateSchedule: Error from scheduleService.CreateSchedule")
		if errors.Is(err, services.ErrScheduleOverlap) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		} else if errors.Is(err, services.ErrScheduleDateRange) || errors.Is(err, services.ErrShiftDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create schedule.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// GetSchedules handles fetching schedules with optional status filter and pagination.
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	var filters services.ScheduleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	if filters.Status != nil && !models.IsValidScheduleStatus(*filters.Status) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", "status: "+*filters.Status))
		return
	}

	schedules, totalCount, err := h.scheduleService.GetSchedules(filters)
	if err != nil {
		utils.LogError(err, "GetSchedules: Error from scheduleService.GetSchedules")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch schedules.", "Internal error"))
		return
	}

	if schedules == nil {
		schedules = []models.Schedule{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  schedules,
		"total": totalCount,
		"page":  filters.Page,
	})
}

// GetScheduleByID handles fetching a single schedule.
func (h *ScheduleHandler) GetScheduleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetScheduleByID(id)
	if err != nil {
		if errors.Is(err, services.ErrScheduleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else {
			utils.LogError(err, "GetScheduleByID: Error from scheduleService.GetScheduleByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch schedule.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule handles deleting a schedule together with its shifts.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteSchedule(id); err != nil {
		utils.LogError(err, "DeleteSchedule: Error from scheduleService.DeleteSchedule")
		if errors.Is(err, services.ErrScheduleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete schedule.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishSchedule handles publishing a schedule and activating its shifts.
func (h *ScheduleHandler) PublishSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.PublishSchedule(id)
	if err != nil {
		utils.LogError(err, "PublishSchedule: Error from scheduleService.PublishSchedule")
		if errors.Is(err, services.ErrScheduleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to publish schedule.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, schedule)
}
