package services

import (
	"errors"
	"fmt"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
)

// BulkOperationType defines the type of a bulk shift operation
type BulkOperationType string

const (
	BulkOperationCreate BulkOperationType = "create"
	BulkOperationUpdate BulkOperationType = "update"
	BulkOperationDelete BulkOperationType = "delete"
)

// IsValidBulkOperationType checks if the provided type string is a valid BulkOperationType.
func IsValidBulkOperationType(opType string) bool {
	switch BulkOperationType(opType) {
	case BulkOperationCreate, BulkOperationUpdate, BulkOperationDelete:
		return true
	default:
		return false
	}
}

// --- Bulk Operation DTOs ---

// BulkOperationData is the payload of a create or update operation.
// Create requires ShiftTypeID and Date; update treats every field as an
// optional patch. UserID on create assigns the slot immediately (with a
// conflict check inside the batch's transaction).
type BulkOperationData struct {
	ShiftTypeID *int64               `json:"shiftTypeId"`
	Date        *string              `json:"date"` // YYYY-MM-DD
	Order       *int                 `json:"order"`
	UserID      models.OptionalInt64 `json:"userId"`
}

type BulkOperationRequest struct {
	Type     BulkOperationType  `json:"type" binding:"required"`
	ID       *int64             `json:"id"`   // update/delete target
	Data     *BulkOperationData `json:"data"` // create/update payload
	ClientID *string            `json:"clientId"`
}

type BulkOperationsRequest struct {
	Operations []BulkOperationRequest `json:"operations" binding:"required,min=1"`
}

// BulkOperationResult reports one operation's outcome. A true Success here
// does not imply persisted state: if any operation in the batch failed,
// the whole transaction is rolled back and every result is rewritten to
// failed. Only AllSuccessful on the response means the batch committed.
type BulkOperationResult struct {
	Type     BulkOperationType     `json:"type"`
	Success  bool                  `json:"success"`
	ClientID *string               `json:"clientId,omitempty"`
	ID       *int64                `json:"id,omitempty"`
	Error    string                `json:"error,omitempty"`
	Data     *models.ScheduleShift `json:"data,omitempty"`
}

type BulkOperationsResponse struct {
	Results              []BulkOperationResult `json:"results"`
	TotalOperations      int                   `json:"totalOperations"`
	SuccessfulOperations int                   `json:"successfulOperations"`
	FailedOperations     int                   `json:"failedOperations"`
	AllSuccessful        bool                  `json:"allSuccessful"`
}

const bulkAbortReason = "Transaction aborted due to other operation failures"

// BulkOperations processes an ordered batch of create/update/delete
// operations against one schedule inside a single transaction. Every
// operation is attempted so the caller gets a full per-operation
// breakdown, then the batch commits only if all of them succeeded;
// otherwise everything is rolled back.
func (s *scheduleShiftService) BulkOperations(scheduleID int64, req BulkOperationsRequest) (*BulkOperationsResponse, error) {
	if _, err := s.scheduleRepo.GetScheduleByID(scheduleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to resolve schedule for bulk operations: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin bulk transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	results := make([]BulkOperationResult, 0, len(req.Operations))
	successfulOperations := 0
	failedOperations := 0

	for _, operation := range req.Operations {
		result := s.processBulkOperation(tx, scheduleID, operation)
		results = append(results, result)
		if result.Success {
			successfulOperations++
		} else {
			failedOperations++
		}
	}

	if failedOperations > 0 {
		// All-or-nothing: the deferred rollback discards the batch and every
		// individually successful result is rewritten as failed.
		for i := range results {
			if results[i].Success {
				results[i].Success = false
				results[i].Error = bulkAbortReason
				results[i].Data = nil
			}
		}
		successfulOperations = 0
		failedOperations = len(results)
	} else {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit bulk transaction: %w", err)
		}
		committed = true
	}

	return &BulkOperationsResponse{
		Results:              results,
		TotalOperations:      len(req.Operations),
		SuccessfulOperations: successfulOperations,
		FailedOperations:     failedOperations,
		AllSuccessful:        failedOperations == 0,
	}, nil
}

// processBulkOperation routes one operation to its handler and converts
// any error into a failed result rather than aborting the loop, so the
// batch response always covers every submitted operation.
func (s *scheduleShiftService) processBulkOperation(
	tx repositories.Tx,
	scheduleID int64,
	operation BulkOperationRequest,
) BulkOperationResult {
	result := BulkOperationResult{
		Type:     operation.Type,
		ClientID: operation.ClientID,
	}

	var err error
	switch operation.Type {
	case BulkOperationCreate:
		err = s.processBulkCreate(tx, scheduleID, operation, &result)
	case BulkOperationUpdate:
		err = s.processBulkUpdate(tx, scheduleID, operation, &result)
	case BulkOperationDelete:
		err = s.processBulkDelete(tx, scheduleID, operation, &result)
	default:
		err = fmt.Errorf("unsupported operation type: %q", operation.Type)
	}

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		result.Data = nil
	} else {
		result.Success = true
	}
	return result
}

func (s *scheduleShiftService) processBulkCreate(
	tx repositories.Tx,
	scheduleID int64,
	operation BulkOperationRequest,
	result *BulkOperationResult,
) error {
	if operation.Data == nil || operation.Data.ShiftTypeID == nil || operation.Data.Date == nil {
		return errors.New("create operation requires data with shiftTypeId and date")
	}

	createReq := CreateScheduleShiftRequest{
		ShiftTypeID: *operation.Data.ShiftTypeID,
		Date:        *operation.Data.Date,
		Order:       operation.Data.Order,
	}
	var userID *int64
	if operation.Data.UserID.Present {
		userID = operation.Data.UserID.Value
	}

	created, err := s.createShift(tx, scheduleID, createReq, userID)
	if err != nil {
		return err
	}
	result.ID = &created.ID
	result.Data = created
	return nil
}

func (s *scheduleShiftService) processBulkUpdate(
	tx repositories.Tx,
	scheduleID int64,
	operation BulkOperationRequest,
	result *BulkOperationResult,
) error {
	if operation.ID == nil {
		return errors.New("update operation requires the id of the shift to update")
	}
	if operation.Data == nil {
		return errors.New("update operation requires data")
	}

	updated, err := s.applyShiftUpdate(tx, scheduleID, *operation.ID, shiftUpdate{
		Date:   operation.Data.Date,
		UserID: operation.Data.UserID,
		Order:  operation.Data.Order,
	})
	if err != nil {
		return err
	}
	result.ID = operation.ID
	result.Data = updated
	return nil
}

func (s *scheduleShiftService) processBulkDelete(
	tx repositories.Tx,
	scheduleID int64,
	operation BulkOperationRequest,
	result *BulkOperationResult,
) error {
	if operation.ID == nil {
		return errors.New("delete operation requires the id of the shift to delete")
	}

	if err := s.shiftRepo.DeleteShift(tx, *operation.ID, scheduleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScheduleShiftNotFound
		}
		return err
	}
	result.ID = operation.ID
	return nil
}
