package services

import (
	"sort"
	"testing"
	"time"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeClockRepo struct {
	entries map[int64]*models.TimeClockEntry
	nextID  int64
}

func newFakeTimeClockRepo() *fakeTimeClockRepo {
	return &fakeTimeClockRepo{entries: map[int64]*models.TimeClockEntry{}, nextID: 1}
}

func (r *fakeTimeClockRepo) CreateEntry(_ repositories.SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error) {
	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeTimeClockRepo) GetOpenEntryForUser(userID int64) (*models.TimeClockEntry, error) {
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.Status == models.TimeClockStatusClockedIn {
			return entry, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeTimeClockRepo) CloseEntry(_ repositories.SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error) {
	if _, ok := r.entries[entry.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeTimeClockRepo) GetEntriesForUser(userID int64, from, to *time.Time, page, pageSize int) ([]models.TimeClockEntry, int, error) {
	result := []models.TimeClockEntry{}
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.ClockInTime.Before(*from) {
			continue
		}
		if to != nil && entry.ClockInTime.After(*to) {
			continue
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClockInTime.After(result[j].ClockInTime) })
	return result, len(result), nil
}

func newTimeClockEnv() (*fakeTimeClockRepo, TimeClockService) {
	repo := newFakeTimeClockRepo()
	return repo, NewTimeClockService(repo, &fakeDB{store: newFakeStore()})
}

func TestClockInAndOut(t *testing.T) {
	repo, service := newTimeClockEnv()

	entry, err := service.ClockIn(1, ClockActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.TimeClockStatusClockedIn, entry.Status)
	assert.Nil(t, entry.ClockOutTime)

	// Double clock-in is refused while a session is open.
	_, err = service.ClockIn(1, ClockActionRequest{})
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	// Another user is unaffected.
	_, err = service.ClockIn(2, ClockActionRequest{})
	require.NoError(t, err)

	// Backdate the open entry so the computed total is visible.
	repo.entries[entry.ID].ClockInTime = time.Now().Add(-90 * time.Minute)

	notes := "went home early"
	closed, err := service.ClockOut(1, ClockActionRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.TimeClockStatusClockedOut, closed.Status)
	require.NotNil(t, closed.ClockOutTime)
	require.NotNil(t, closed.TotalMinutes)
	assert.GreaterOrEqual(t, *closed.TotalMinutes, 90)
	require.NotNil(t, closed.Notes)
	assert.Equal(t, "went home early", *closed.Notes)

	_, err = service.ClockOut(1, ClockActionRequest{})
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestTimeClockStatus(t *testing.T) {
	_, service := newTimeClockEnv()

	status, err := service.GetStatus(1)
	require.NoError(t, err)
	assert.False(t, status.ClockedIn)
	assert.Nil(t, status.CurrentEntry)

	_, err = service.ClockIn(1, ClockActionRequest{})
	require.NoError(t, err)

	status, err = service.GetStatus(1)
	require.NoError(t, err)
	assert.True(t, status.ClockedIn)
	require.NotNil(t, status.CurrentEntry)
	assert.Equal(t, int64(1), status.CurrentEntry.UserID)
}

func TestTimeClockEntriesFilters(t *testing.T) {
	repo, service := newTimeClockEnv()

	old := &models.TimeClockEntry{UserID: 1, ClockInTime: mustParseDay("2026-08-01"), Status: models.TimeClockStatusClockedOut}
	recent := &models.TimeClockEntry{UserID: 1, ClockInTime: mustParseDay("2026-08-20"), Status: models.TimeClockStatusClockedOut}
	other := &models.TimeClockEntry{UserID: 2, ClockInTime: mustParseDay("2026-08-20"), Status: models.TimeClockStatusClockedOut}
	for _, entry := range []*models.TimeClockEntry{old, recent, other} {
		_, err := repo.CreateEntry(nil, entry)
		require.NoError(t, err)
	}

	from := "2026-08-10"
	resp, err := service.GetEntries(1, TimeClockEntriesFilters{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, recent.ID, resp.Entries[0].ID)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)

	bad := "August 10"
	_, err = service.GetEntries(1, TimeClockEntriesFilters{From: &bad})
	assert.ErrorIs(t, err, ErrShiftDateFormat)
}

func mustParseDay(day string) time.Time {
	parsed, err := time.Parse(shiftDateLayout, day)
	if err != nil {
		panic(err)
	}
	return parsed
}
