package services

import (
	"testing"

	"roster_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkOperationsCommitWhenAllSucceed(t *testing.T) {
	env := newShiftServiceEnv()
	schedule := env.addSchedule("Week 10", "2026-03-02", "2026-03-08", models.ScheduleStatusDraft)
	morning := env.addShiftType("Morning", "08:00", "16:00")
	user := env.addUser("Dana", "Kim")
	existing := env.addShift(schedule.ID, morning.ID, "2026-03-02", 1, nil)
	doomed := env.addShift(schedule.ID, morning.ID, "2026-03-03", 1, nil)

	clientID := "tmp-1"
	date := "2026-03-04"
	resp, err := env.service.BulkOperations(schedule.ID, BulkOperationsRequest{
		Operations: []BulkOperationRequest{
			{
				Type:     BulkOperationCreate,
				ClientID: &clientID,
				Data:     &BulkOperationData{ShiftTypeID: &morning.ID, Date: &date},
			},
			{
				Type: BulkOperationUpdate,
				ID:   &existing.ID,
				Data: &BulkOperationData{UserID: optionalUser(user.ID)},
			},
			{
				Type: BulkOperationDelete,
				ID:   &doomed.ID,
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.AllSuccessful)
	assert.Equal(t, 3, resp.TotalOperations)
	assert.Equal(t, 3, resp.SuccessfulOperations)
	assert.Equal(t, 0, resp.FailedOperations)
	require.Len(t, resp.Results, 3)

	createResult := resp.Results[0]
	assert.True(t, createResult.Success)
	require.NotNil(t, createResult.ClientID)
	assert.Equal(t, "tmp-1", *createResult.ClientID)
	require.NotNil(t, createResult.ID)
	require.NotNil(t, createResult.Data)
	assert.Equal(t, 1, createResult.Data.Order)

	// Committed state: created shift present, update applied, delete gone.
	assert.Contains(t, env.store.shifts, *createResult.ID)
	require.NotNil(t, env.store.shifts[existing.ID].UserID)
	assert.Equal(t, user.ID, *env.store.shifts[existing.ID].UserID)
	assert.NotContains(t, env.store.shifts, doomed.ID)
}

func TestBulkOperationsRollBackOnAnyFailure(t *testing.T) {
	env := newShiftServiceEnv()
	schedule := env.addSchedule("Week 10", "2026-03-02", "2026-03-08", models.ScheduleStatusDraft)
	morning := env.addShiftType("Morning", "08:00", "16:00")
	existing := env.addShift(schedule.ID, morning.ID, "2026-03-02", 1, nil)

	date := "2026-03-04"
	missingID := int64(9999)
	order := 7
	resp, err := env.service.BulkOperations(schedule.ID, BulkOperationsRequest{
		Operations: []BulkOperationRequest{
			{
				Type: BulkOperationCreate,
				Data: &BulkOperationData{ShiftTypeID: &morning.ID, Date: &date},
			},
			{
				// Middle operation fails: the target shift does not exist.
				Type: BulkOperationUpdate,
				ID:   &missingID,
				Data: &BulkOperationData{Order: &order},
			},
			{
				Type: BulkOperationDelete,
				ID:   &existing.ID,
			},
		},
	})
	require.NoError(t, err)

	assert.False(t, resp.AllSuccessful)
	assert.Equal(t, 3, resp.TotalOperations)
	assert.Equal(t, 0, resp.SuccessfulOperations)
	assert.Equal(t, 3, resp.FailedOperations)

	// Individually successful operations are rewritten as aborted.
	assert.False(t, resp.Results[0].Success)
	assert.Equal(t, bulkAbortReason, resp.Results[0].Error)
	assert.Nil(t, resp.Results[0].Data)
	assert.False(t, resp.Results[1].Success)
	assert.Equal(t, ErrScheduleShiftNotFound.Error(), resp.Results[1].Error)
	assert.False(t, resp.Results[2].Success)
	assert.Equal(t, bulkAbortReason, resp.Results[2].Error)

	// Nothing persisted: the create is gone and the delete target remains.
	assert.Len(t, env.store.shifts, 1)
	assert.Contains(t, env.store.shifts, existing.ID)
}

func TestBulkCreateSeesEarlierWritesInBatch(t *testing.T) {
	env := newShiftServiceEnv()
	schedule := env.addSchedule("Week 10", "2026-03-02", "2026-03-08", models.ScheduleStatusDraft)
	morning := env.addShiftType("Morning", "08:00", "16:00")
	day := env.addShiftType("Day", "10:00", "18:00")
	user := env.addUser("Dana", "Kim")

	date := "2026-03-02"
	resp, err := env.service.BulkOperations(schedule.ID, BulkOperationsRequest{
		Operations: []BulkOperationRequest{
			{
				Type: BulkOperationCreate,
				Data: &BulkOperationData{ShiftTypeID: &morning.ID, Date: &date, UserID: optionalUser(user.ID)},
			},
			{
				// Overlaps the shift created one operation earlier, so the
				// in-transaction conflict check must reject it.
				Type: BulkOperationCreate,
				Data: &BulkOperationData{ShiftTypeID: &day.ID, Date: &date, UserID: optionalUser(user.ID)},
			},
		},
	})
	require.NoError(t, err)

	assert.False(t, resp.AllSuccessful)
	assert.Contains(t, resp.Results[1].Error, "conflicting shift")

	// The whole batch rolled back, including the first create.
	assert.Empty(t, env.store.shifts)
}

func TestBulkOperationsValidation(t *testing.T) {
	env := newShiftServiceEnv()
	schedule := env.addSchedule("Week 10", "2026-03-02", "2026-03-08", models.ScheduleStatusDraft)
	env.addShiftType("Morning", "08:00", "16:00")

	resp, err := env.service.BulkOperations(schedule.ID, BulkOperationsRequest{
		Operations: []BulkOperationRequest{
			{Type: BulkOperationCreate},
			{Type: BulkOperationUpdate},
			{Type: BulkOperationDelete},
			{Type: BulkOperationType("merge")},
		},
	})
	require.NoError(t, err)

	assert.False(t, resp.AllSuccessful)
	assert.Equal(t, 4, resp.FailedOperations)
	assert.Contains(t, resp.Results[0].Error, "shiftTypeId and date")
	assert.Contains(t, resp.Results[1].Error, "id of the shift to update")
	assert.Contains(t, resp.Results[2].Error, "id of the shift to delete")
	assert.Contains(t, resp.Results[3].Error, "unsupported operation type")
}

func TestBulkOperationsUnknownSchedule(t *testing.T) {
	env := newShiftServiceEnv()

	_, err := env.service.BulkOperations(42, BulkOperationsRequest{
		Operations: []BulkOperationRequest{{Type: BulkOperationDelete}},
	})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestIsValidBulkOperationType(t *testing.T) {
	assert.True(t, IsValidBulkOperationType("create"))
	assert.True(t, IsValidBulkOperationType("update"))
	assert.True(t, IsValidBulkOperationType("delete"))
	assert.False(t, IsValidBulkOperationType("upsert"))
	assert.False(t, IsValidBulkOperationType(""))
}
