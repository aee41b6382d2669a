package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeStore is an in-memory Store with scripted failures.
type fakeStore struct {
	days    []DayTiming
	loadErr error
	saveErr error

	saveCalls int
}

func (s *fakeStore) Load() ([]DayTiming, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]DayTiming, len(s.days))
	copy(out, s.days)
	return out, nil
}

func (s *fakeStore) Save(days []DayTiming) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.days = make([]DayTiming, len(days))
	copy(s.days, days)
	return nil
}

// aMonday is 2025-06-02, a Monday, at 12:00.
var aMonday = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestDefaultWeek(t *testing.T) {
	week := Default()
	assert.Len(t, week.Days, 7)
	assert.Equal(t, "mon", week.Days[0].ID, "week starts on Monday")
	assert.Equal(t, "sun", week.Days[6].ID)

	for _, d := range week.Days[:6] {
		assert.True(t, d.IsOpen, "%s open by default", d.ID)
	}
	sun := week.Days[6]
	assert.False(t, sun.IsOpen)
	assert.Equal(t, "10:00", sun.OpenTime)
	assert.Equal(t, "21:00", sun.CloseTime)

	fri := week.Days[4]
	assert.Equal(t, "23:00", fri.CloseTime)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	week, err := Load(&fakeStore{}, aMonday)
	assert.NoError(t, err)
	assert.Len(t, week.Days, 7)

	today := week.Today()
	assert.NotNil(t, today)
	assert.Equal(t, "mon", today.ID)
}

func TestLoadPrefersStoredWeek(t *testing.T) {
	stored := Default()
	stored.Days[0].OpenTime = "08:00"
	store := &fakeStore{days: stored.Days}

	week, err := Load(store, aMonday)
	assert.NoError(t, err)
	assert.Equal(t, "08:00", week.Days[0].OpenTime)
}

func TestLoadPropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Load(&fakeStore{loadErr: boom}, aMonday)
	assert.ErrorIs(t, err, boom)
}

func TestMarkTodayExactlyOne(t *testing.T) {
	week := Default()
	for wd := 0; wd < 7; wd++ {
		now := aMonday.AddDate(0, 0, wd)
		week.MarkToday(now)

		count := 0
		for _, d := range week.Days {
			if d.IsToday {
				count++
			}
		}
		assert.Equal(t, 1, count, "weekday offset %d", wd)
		assert.Equal(t, dayIDs[now.Weekday()], week.Today().ID)
	}
}

func TestToggleDay(t *testing.T) {
	week := Default()
	assert.NoError(t, week.ToggleDay("sun"))
	assert.True(t, week.Days[6].IsOpen)
	assert.Equal(t, "10:00", week.Days[6].OpenTime, "times survive a toggle")

	assert.NoError(t, week.ToggleDay("sun"))
	assert.False(t, week.Days[6].IsOpen)

	assert.ErrorIs(t, week.ToggleDay("noday"), ErrUnknownDay)
}

func TestSetDayTime(t *testing.T) {
	week := Default()
	assert.NoError(t, week.SetDayTime("mon", OpenTime, "07:30"))
	assert.NoError(t, week.SetDayTime("mon", CloseTime, "20:15"))
	assert.Equal(t, "07:30", week.Days[0].OpenTime)
	assert.Equal(t, "20:15", week.Days[0].CloseTime)

	assert.ErrorIs(t, week.SetDayTime("noday", OpenTime, "09:00"), ErrUnknownDay)
}

func TestBulkApply(t *testing.T) {
	store := &fakeStore{}
	week := Default()
	week.Days[6].IsOpen = false

	err := week.BulkApply(store, []string{"sat", "sun"}, "11:00", "20:00")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.saveCalls, "one replace-all write")

	for _, id := range []string{"sat", "sun"} {
		var day DayTiming
		for _, d := range week.Days {
			if d.ID == id {
				day = d
			}
		}
		assert.True(t, day.IsOpen, "%s forced open", id)
		assert.Equal(t, "11:00", day.OpenTime)
		assert.Equal(t, "20:00", day.CloseTime)
	}
	assert.Equal(t, "09:00", week.Days[0].OpenTime, "unselected days untouched")
}

func TestBulkApplyEmptySelection(t *testing.T) {
	store := &fakeStore{}
	week := Default()
	assert.ErrorIs(t, week.BulkApply(store, nil, "11:00", "20:00"), ErrNoDaysSelected)
	assert.Equal(t, 0, store.saveCalls)
}

func TestBulkApplyRollsBackOnSaveFailure(t *testing.T) {
	boom := errors.New("write failed")
	store := &fakeStore{saveErr: boom}
	week := Default()

	err := week.BulkApply(store, []string{"mon"}, "11:00", "20:00")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "09:00", week.Days[0].OpenTime, "local mutation rolled back")
	assert.True(t, week.Days[0].IsOpen)
}

func TestBulkApplyReloadsFromStoreOnFailure(t *testing.T) {
	saved := Default()
	saved.Days[0].OpenTime = "06:00"

	boom := errors.New("write failed")
	store := &fakeStore{days: saved.Days, saveErr: boom}

	week := Default()
	err := week.BulkApply(store, []string{"mon"}, "11:00", "20:00")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "06:00", week.Days[0].OpenTime, "store copy wins over the local snapshot")
}

func TestIsOpenNow(t *testing.T) {
	week := Default()

	at := func(hour, min int) time.Time {
		return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC) // Monday 09:00-22:00
	}

	assert.False(t, week.IsOpenNow(at(8, 59)))
	assert.True(t, week.IsOpenNow(at(9, 0)), "open minute counts")
	assert.True(t, week.IsOpenNow(at(15, 30)))
	assert.True(t, week.IsOpenNow(at(22, 0)), "close minute still counts")
	assert.False(t, week.IsOpenNow(at(22, 1)))
}

func TestLoadAndOpenNowOnWednesday(t *testing.T) {
	wednesdayNoon := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	week, err := Load(&fakeStore{}, wednesdayNoon)
	assert.NoError(t, err)

	today := week.Today()
	assert.NotNil(t, today)
	assert.Equal(t, "wed", today.ID)
	assert.Equal(t, "Wednesday", today.Day)
	assert.True(t, week.IsOpenNow(wednesdayNoon))
	assert.False(t, week.IsOpenNow(wednesdayNoon.Add(11*time.Hour)), "23:00 is past Wednesday close")
}

func TestIsOpenNowClosedDay(t *testing.T) {
	week := Default()
	sunday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, week.IsOpenNow(sunday))
}

func TestIsOpenNowCloseBeforeOpenNeverOpen(t *testing.T) {
	week := Default()
	assert.NoError(t, week.SetDayTime("mon", OpenTime, "22:00"))
	assert.NoError(t, week.SetDayTime("mon", CloseTime, "06:00"))

	assert.False(t, week.IsOpenNow(time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)))
	assert.False(t, week.IsOpenNow(time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)))
	assert.False(t, week.IsOpenNow(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)))
}
