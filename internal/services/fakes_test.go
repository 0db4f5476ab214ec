package services

import (
	"database/sql"
	"sort"
	"time"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
)

// The fakes below back the service tests with in-memory tables. They
// ignore the SQLExecutor argument for individual statements but honor
// transaction semantics: fakeDB.Begin snapshots the shift table and
// Rollback restores it, so all-or-nothing bulk behavior is observable.

type fakeStore struct {
	schedules  map[int64]*models.Schedule
	shiftTypes map[int64]*models.ShiftType
	users      map[int64]*models.User
	shifts     map[int64]*models.ScheduleShift
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules:  map[int64]*models.Schedule{},
		shiftTypes: map[int64]*models.ShiftType{},
		users:      map[int64]*models.User{},
		shifts:     map[int64]*models.ScheduleShift{},
		nextID:     1,
	}
}

func (st *fakeStore) allocID() int64 {
	id := st.nextID
	st.nextID++
	return id
}

func cloneShift(s *models.ScheduleShift) *models.ScheduleShift {
	clone := *s
	if s.UserID != nil {
		v := *s.UserID
		clone.UserID = &v
	}
	if s.ActualStartTime != nil {
		v := *s.ActualStartTime
		clone.ActualStartTime = &v
	}
	if s.ActualEndTime != nil {
		v := *s.ActualEndTime
		clone.ActualEndTime = &v
	}
	clone.ShiftType = nil
	clone.User = nil
	return &clone
}

func (st *fakeStore) snapshotShifts() map[int64]*models.ScheduleShift {
	snapshot := make(map[int64]*models.ScheduleShift, len(st.shifts))
	for id, shift := range st.shifts {
		snapshot[id] = cloneShift(shift)
	}
	return snapshot
}

// joined returns a copy of the stored shift with its shift type and
// assignee attached, the way the SQL repository's row scanner does.
func (st *fakeStore) joined(shift *models.ScheduleShift) *models.ScheduleShift {
	result := cloneShift(shift)
	result.ShiftType = st.shiftTypes[shift.ShiftTypeID]
	if shift.UserID != nil {
		if user, ok := st.users[*shift.UserID]; ok {
			result.User = &models.UserSummary{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Role:      user.Role,
			}
		}
	}
	return result
}

// --- fake DB / Tx ---

type noopExecutor struct{}

func (noopExecutor) Exec(string, ...interface{}) (sql.Result, error) { return nil, nil }
func (noopExecutor) QueryRow(string, ...interface{}) *sql.Row        { return nil }
func (noopExecutor) Query(string, ...interface{}) (*sql.Rows, error) { return nil, nil }

type fakeDB struct {
	noopExecutor
	store *fakeStore
}

func (db *fakeDB) Begin() (repositories.Tx, error) {
	return &fakeTx{
		store:     db.store,
		snapshot:  db.store.snapshotShifts(),
		savedNext: db.store.nextID,
	}, nil
}

type fakeTx struct {
	noopExecutor
	store     *fakeStore
	snapshot  map[int64]*models.ScheduleShift
	savedNext int64
	done      bool
}

func (tx *fakeTx) Commit() error {
	tx.done = true
	return nil
}

func (tx *fakeTx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.store.shifts = tx.snapshot
	tx.store.nextID = tx.savedNext
	return nil
}

// --- fake ScheduleRepository ---

type fakeScheduleRepo struct {
	store *fakeStore
}

func (r *fakeScheduleRepo) CreateSchedule(_ repositories.SQLExecutor, schedule *models.Schedule) (*models.Schedule, error) {
	schedule.ID = r.store.allocID()
	r.store.schedules[schedule.ID] = schedule
	return schedule, nil
}

func (r *fakeScheduleRepo) GetScheduleByID(id int64) (*models.Schedule, error) {
	schedule, ok := r.store.schedules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return schedule, nil
}

func (r *fakeScheduleRepo) GetSchedules(status *models.ScheduleStatus, page, pageSize int) ([]models.Schedule, int, error) {
	result := []models.Schedule{}
	for _, schedule := range r.store.schedules {
		if status != nil && schedule.Status != *status {
			continue
		}
		result = append(result, *schedule)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, len(result), nil
}

func (r *fakeScheduleRepo) DeleteSchedule(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.store.schedules[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.store.schedules, id)
	return nil
}

func (r *fakeScheduleRepo) PublishSchedule(_ repositories.SQLExecutor, id int64) (*models.Schedule, error) {
	schedule, ok := r.store.schedules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	schedule.Status = models.ScheduleStatusPublished
	return schedule, nil
}

func (r *fakeScheduleRepo) HasOverlappingSchedule(startDate, endDate time.Time) (bool, error) {
	for _, schedule := range r.store.schedules {
		if !schedule.StartDate.After(endDate) && !schedule.EndDate.Before(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeScheduleRepo) GetMostRecentPublished(excludeID int64) (*models.Schedule, error) {
	var best *models.Schedule
	for _, schedule := range r.store.schedules {
		if schedule.ID == excludeID || schedule.Status != models.ScheduleStatusPublished {
			continue
		}
		if best == nil || schedule.EndDate.After(best.EndDate) {
			best = schedule
		}
	}
	if best == nil {
		return nil, repositories.ErrNotFound
	}
	return best, nil
}

// --- fake ShiftTypeRepository ---

type fakeShiftTypeRepo struct {
	store *fakeStore
}

func (r *fakeShiftTypeRepo) CreateShiftType(_ repositories.SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error) {
	shiftType.ID = r.store.allocID()
	r.store.shiftTypes[shiftType.ID] = shiftType
	return shiftType, nil
}

func (r *fakeShiftTypeRepo) GetShiftTypeByID(_ repositories.SQLExecutor, id int64) (*models.ShiftType, error) {
	shiftType, ok := r.store.shiftTypes[id]
	if !ok || !shiftType.IsActive {
		return nil, repositories.ErrNotFound
	}
	return shiftType, nil
}

func (r *fakeShiftTypeRepo) GetActiveShiftTypes() ([]models.ShiftType, error) {
	result := []models.ShiftType{}
	for _, shiftType := range r.store.shiftTypes {
		if shiftType.IsActive {
			result = append(result, *shiftType)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeShiftTypeRepo) UpdateShiftType(_ repositories.SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error) {
	if _, ok := r.store.shiftTypes[shiftType.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.store.shiftTypes[shiftType.ID] = shiftType
	return shiftType, nil
}

func (r *fakeShiftTypeRepo) DeactivateShiftType(_ repositories.SQLExecutor, id int64) error {
	shiftType, ok := r.store.shiftTypes[id]
	if !ok || !shiftType.IsActive {
		return repositories.ErrNotFound
	}
	shiftType.IsActive = false
	return nil
}

func (r *fakeShiftTypeRepo) CountActiveShiftUsage(shiftTypeID int64) (int, error) {
	count := 0
	for _, shift := range r.store.shifts {
		if shift.ShiftTypeID == shiftTypeID && shift.IsActive {
			count++
		}
	}
	return count, nil
}

// --- fake ScheduleShiftRepository ---

type fakeShiftRepo struct {
	store *fakeStore
}

func (r *fakeShiftRepo) CreateShift(_ repositories.SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error) {
	stored := cloneShift(shift)
	stored.ID = r.store.allocID()
	r.store.shifts[stored.ID] = stored
	return r.store.joined(stored), nil
}

func (r *fakeShiftRepo) GetShiftByID(_ repositories.SQLExecutor, shiftID, scheduleID int64) (*models.ScheduleShift, error) {
	shift, ok := r.store.shifts[shiftID]
	if !ok || shift.ScheduleID != scheduleID {
		return nil, repositories.ErrNotFound
	}
	return r.store.joined(shift), nil
}

func (r *fakeShiftRepo) GetShiftsBySchedule(scheduleID int64) ([]models.ScheduleShift, error) {
	result := []models.ScheduleShift{}
	for _, shift := range r.store.shifts {
		if shift.ScheduleID == scheduleID {
			result = append(result, *r.store.joined(shift))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeShiftRepo) CountShiftsForDate(_ repositories.SQLExecutor, scheduleID int64, date time.Time) (int, error) {
	count := 0
	for _, shift := range r.store.shifts {
		if shift.ScheduleID == scheduleID && shift.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (r *fakeShiftRepo) UpdateShift(_ repositories.SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error) {
	existing, ok := r.store.shifts[shift.ID]
	if !ok || existing.ScheduleID != shift.ScheduleID {
		return nil, repositories.ErrNotFound
	}
	r.store.shifts[shift.ID] = cloneShift(shift)
	return r.store.joined(r.store.shifts[shift.ID]), nil
}

func (r *fakeShiftRepo) DeleteShift(_ repositories.SQLExecutor, shiftID, scheduleID int64) error {
	shift, ok := r.store.shifts[shiftID]
	if !ok || shift.ScheduleID != scheduleID {
		return repositories.ErrNotFound
	}
	delete(r.store.shifts, shiftID)
	return nil
}

func (r *fakeShiftRepo) GetAssignedShiftsForUserOnDate(_ repositories.SQLExecutor, userID int64, dayStart time.Time) ([]models.ScheduleShift, error) {
	dayEnd := dayStart.AddDate(0, 0, 1)
	result := []models.ScheduleShift{}
	for _, shift := range r.store.shifts {
		if shift.UserID == nil || *shift.UserID != userID {
			continue
		}
		if shift.Date.Before(dayStart) || !shift.Date.Before(dayEnd) {
			continue
		}
		result = append(result, *r.store.joined(shift))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeShiftRepo) ActivateShiftsForSchedule(_ repositories.SQLExecutor, scheduleID int64) error {
	for _, shift := range r.store.shifts {
		if shift.ScheduleID != scheduleID {
			continue
		}
		shiftType, ok := r.store.shiftTypes[shift.ShiftTypeID]
		if !ok {
			continue
		}
		shift.IsActive = true
		start := shiftType.StartTime
		end := shiftType.EndTime
		shift.ActualStartTime = &start
		shift.ActualEndTime = &end
	}
	return nil
}

// --- test environment ---

type shiftServiceEnv struct {
	store         *fakeStore
	service       ScheduleShiftService
	shiftRepo     *fakeShiftRepo
	scheduleRepo  *fakeScheduleRepo
	shiftTypeRepo *fakeShiftTypeRepo
	db            *fakeDB
}

func newShiftServiceEnv() *shiftServiceEnv {
	store := newFakeStore()
	env := &shiftServiceEnv{
		store:         store,
		shiftRepo:     &fakeShiftRepo{store: store},
		scheduleRepo:  &fakeScheduleRepo{store: store},
		shiftTypeRepo: &fakeShiftTypeRepo{store: store},
		db:            &fakeDB{store: store},
	}
	env.service = NewScheduleShiftService(env.shiftRepo, env.scheduleRepo, env.shiftTypeRepo, env.db)
	return env
}

func (env *shiftServiceEnv) addSchedule(name, startDate, endDate string, status models.ScheduleStatus) *models.Schedule {
	start, _ := time.Parse(shiftDateLayout, startDate)
	end, _ := time.Parse(shiftDateLayout, endDate)
	schedule := &models.Schedule{
		ID:        env.store.allocID(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	env.store.schedules[schedule.ID] = schedule
	return schedule
}

func (env *shiftServiceEnv) addShiftType(name, startTime, endTime string) *models.ShiftType {
	shiftType := &models.ShiftType{
		ID:        env.store.allocID(),
		Name:      name,
		StartTime: startTime,
		EndTime:   endTime,
		IsActive:  true,
	}
	env.store.shiftTypes[shiftType.ID] = shiftType
	return shiftType
}

func (env *shiftServiceEnv) addUser(firstName, lastName string) *models.User {
	user := &models.User{
		ID:        env.store.allocID(),
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleEmployee,
		IsActive:  true,
	}
	env.store.users[user.ID] = user
	return user
}

func (env *shiftServiceEnv) addShift(scheduleID, shiftTypeID int64, date string, order int, userID *int64) *models.ScheduleShift {
	parsed, _ := time.Parse(shiftDateLayout, date)
	shift := &models.ScheduleShift{
		ID:          env.store.allocID(),
		ScheduleID:  scheduleID,
		ShiftTypeID: shiftTypeID,
		Date:        parsed,
		UserID:      userID,
		Order:       order,
	}
	env.store.shifts[shift.ID] = shift
	return shift
}
