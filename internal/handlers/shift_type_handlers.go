package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"roster_backend/internal/services"
	"roster_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftTypeHandler holds the shift type service.
type ShiftTypeHandler struct {
	shiftTypeService services.ShiftTypeService
}

// NewShiftTypeHandler creates a new ShiftTypeHandler.
func NewShiftTypeHandler(sts services.ShiftTypeService) *ShiftTypeHandler {
	return &ShiftTypeHandler{shiftTypeService: sts}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}

// CreateShiftType handles the creation of a new shift template.
func (h *ShiftTypeHandler) CreateShiftType(c *gin.Context) {
	var req services.CreateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateShiftType: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shiftType, err := h.shiftTypeService.CreateShiftType(req)
	if err != nil {
		utils.LogError(err, "CreateShiftType: Error from shiftTypeService.CreateShiftType")
		if errors.Is(err, services.ErrShiftTimeFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create shift type.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, shiftType)
}

// GetShiftTypes handles fetching all active shift templates.
func (h *ShiftTypeHandler) GetShiftTypes(c *gin.Context) {
	shiftTypes, err := h.shiftTypeService.GetShiftTypes()
	if err != nil {
		utils.LogError(err, "GetShiftTypes: Error from shiftTypeService.GetShiftTypes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shift types.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, shiftTypes)
}

// GetShiftTypeByID handles fetching a single shift template.
func (h *ShiftTypeHandler) GetShiftTypeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shiftType, err := h.shiftTypeService.GetShiftTypeByID(id)
	if err != nil {
		if errors.Is(err, services.ErrShiftTypeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else {
			utils.LogError(err, "GetShiftTypeByID: Error from shiftTypeService.GetShiftTypeByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shift type.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, shiftType)
}

// UpdateShiftType handles partial updates of a shift template.
func (h *ShiftTypeHandler) UpdateShiftType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateShiftType: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shiftType, err := h.shiftTypeService.UpdateShiftType(id, req)
	if err != nil {
		utils.LogError(err, "UpdateShiftType: Error from shiftTypeService.UpdateShiftType")
		if errors.Is(err, services.ErrShiftTypeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else if errors.Is(err, services.ErrShiftTimeFormat) || errors.Is(err, services.ErrShiftTypeValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update shift type.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, shiftType)
}

// DeleteShiftType handles soft-deleting a shift template.
func (h *ShiftTypeHandler) DeleteShiftType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.shiftTypeService.DeleteShiftType(id)
	if err != nil {
		utils.LogError(err, "DeleteShiftType: Error from shiftTypeService.DeleteShiftType")
		if errors.Is(err, services.ErrShiftTypeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
		} else if errors.Is(err, services.ErrShiftTypeInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete shift type.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}
