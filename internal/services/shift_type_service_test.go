package services

import (
	"testing"

	"roster_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShiftTypeServiceEnv() (*shiftServiceEnv, ShiftTypeService) {
	env := newShiftServiceEnv()
	return env, NewShiftTypeService(env.shiftTypeRepo, env.db)
}

func TestCreateShiftTypeDefaults(t *testing.T) {
	_, service := newShiftTypeServiceEnv()

	shiftType, err := service.CreateShiftType(CreateShiftTypeRequest{
		Name:      "Night",
		StartTime: "22:00",
		EndTime:   "06:00",
	})
	require.NoError(t, err)
	assert.True(t, shiftType.IsActive)
	assert.Equal(t, 0, shiftType.ColorIndex)

	_, err = service.CreateShiftType(CreateShiftTypeRequest{
		Name:      "Broken",
		StartTime: "26:00",
		EndTime:   "06:00",
	})
	assert.ErrorIs(t, err, ErrShiftTimeFormat)
}

func TestUpdateShiftTypePartial(t *testing.T) {
	env, service := newShiftTypeServiceEnv()
	shiftType := env.addShiftType("Morning", "08:00", "16:00")

	newEnd := "15:00"
	updated, err := service.UpdateShiftType(shiftType.ID, UpdateShiftTypeRequest{EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "Morning", updated.Name)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.Equal(t, "15:00", updated.EndTime)

	empty := "  "
	_, err = service.UpdateShiftType(shiftType.ID, UpdateShiftTypeRequest{Name: &empty})
	assert.ErrorIs(t, err, ErrShiftTypeValidation)

	_, err = service.UpdateShiftType(999, UpdateShiftTypeRequest{EndTime: &newEnd})
	assert.ErrorIs(t, err, ErrShiftTypeNotFound)
}

func TestDeleteShiftTypeGuardedByUsage(t *testing.T) {
	env, service := newShiftTypeServiceEnv()
	schedule := env.addSchedule("Week 10", "2026-03-02", "2026-03-08", models.ScheduleStatusPublished)
	shiftType := env.addShiftType("Morning", "08:00", "16:00")

	shift := env.addShift(schedule.ID, shiftType.ID, "2026-03-02", 1, nil)
	shift.IsActive = true

	assert.ErrorIs(t, service.DeleteShiftType(shiftType.ID), ErrShiftTypeInUse)

	// Once nothing published references it, soft delete goes through and
	// the template disappears from the active listing.
	delete(env.store.shifts, shift.ID)
	require.NoError(t, service.DeleteShiftType(shiftType.ID))

	_, err := service.GetShiftTypeByID(shiftType.ID)
	assert.ErrorIs(t, err, ErrShiftTypeNotFound)

	assert.ErrorIs(t, service.DeleteShiftType(shiftType.ID), ErrShiftTypeNotFound)
}
