// Package schedule models the store's weekly operating hours and the
// "open now" computation derived from them. It performs no I/O of its
// own: persistence goes through the Store collaborator so the same
// logic serves any backing storage.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by schedule operations.
var (
	ErrNoDaysSelected = errors.New("no days selected")
	ErrUnknownDay     = errors.New("unknown day id")
)

// DayTiming is one weekday's configuration. OpenTime/CloseTime are
// "HH:MM" 24-hour strings and are meaningful only while IsOpen is set.
type DayTiming struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsToday   bool   `json:"isToday"`
}

// Store persists the weekly schedule. Save replaces the entire week;
// there is no partial-day persistence. An empty Load result means no
// schedule has been saved yet and the default week applies.
type Store interface {
	Load() ([]DayTiming, error)
	Save(days []DayTiming) error
}

// Week is the ordered Monday-first collection of exactly 7 day
// timings.
type Week struct {
	Days []DayTiming
}

// dayIDs maps time.Weekday (Sunday=0..Saturday=6) to day ids.
var dayIDs = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// Default returns the week used when the store holds no schedule:
// Mon-Thu 09:00-22:00, Fri 09:00-23:00, Sat 10:00-23:00 and Sunday
// configured 10:00-21:00 but closed.
func Default() Week {
	return Week{Days: []DayTiming{
		{ID: "mon", Day: "Monday", IsOpen: true, OpenTime: "09:00", CloseTime: "22:00"},
		{ID: "tue", Day: "Tuesday", IsOpen: true, OpenTime: "09:00", CloseTime: "22:00"},
		{ID: "wed", Day: "Wednesday", IsOpen: true, OpenTime: "09:00", CloseTime: "22:00"},
		{ID: "thu", Day: "Thursday", IsOpen: true, OpenTime: "09:00", CloseTime: "22:00"},
		{ID: "fri", Day: "Friday", IsOpen: true, OpenTime: "09:00", CloseTime: "23:00"},
		{ID: "sat", Day: "Saturday", IsOpen: true, OpenTime: "10:00", CloseTime: "23:00"},
		{ID: "sun", Day: "Sunday", IsOpen: false, OpenTime: "10:00", CloseTime: "21:00"},
	}}
}

// Load reads the week from the store, falling back to the default week
// when the store holds zero entries, and marks today's entry.
func Load(store Store, now time.Time) (Week, error) {
	days, err := store.Load()
	if err != nil {
		return Week{}, err
	}

	week := Week{Days: days}
	if len(days) == 0 {
		week = Default()
	}
	week.MarkToday(now)
	return week, nil
}

// MarkToday recomputes the derived IsToday flag so that exactly one
// entry carries it: the one matching now's weekday.
func (w *Week) MarkToday(now time.Time) {
	todayID := dayIDs[now.Weekday()]
	for i := range w.Days {
		w.Days[i].IsToday = w.Days[i].ID == todayID
	}
}

// Today returns the entry flagged as today, or nil if MarkToday has
// not been called on a populated week.
func (w *Week) Today() *DayTiming {
	for i := range w.Days {
		if w.Days[i].IsToday {
			return &w.Days[i]
		}
	}
	return nil
}

func (w *Week) find(id string) *DayTiming {
	for i := range w.Days {
		if w.Days[i].ID == id {
			return &w.Days[i]
		}
	}
	return nil
}

// ToggleDay flips the open flag of one day, leaving its times intact.
func (w *Week) ToggleDay(id string) error {
	day := w.find(id)
	if day == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDay, id)
	}
	day.IsOpen = !day.IsOpen
	return nil
}

// TimeField selects which time of a day SetDayTime edits.
type TimeField string

const (
	OpenTime  TimeField = "openTime"
	CloseTime TimeField = "closeTime"
)

// SetDayTime sets one day's open or close time. No ordering between
// open and close is enforced; a close before open simply yields a day
// that is never open (overnight hours are not supported).
func (w *Week) SetDayTime(id string, field TimeField, value string) error {
	day := w.find(id)
	if day == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDay, id)
	}
	switch field {
	case CloseTime:
		day.CloseTime = value
	default:
		day.OpenTime = value
	}
	return nil
}

// BulkApply sets the supplied open/close pair on every selected day,
// forcing those days open, and immediately persists the entire week as
// one replace-all write. The local mutation is optimistic: when the
// save fails the week is reloaded from the store so callers never keep
// a half-applied schedule.
func (w *Week) BulkApply(store Store, selected []string, openTime, closeTime string) error {
	if len(selected) == 0 {
		return ErrNoDaysSelected
	}

	ids := make(map[string]bool, len(selected))
	for _, id := range selected {
		ids[id] = true
	}

	before := make([]DayTiming, len(w.Days))
	copy(before, w.Days)

	for i := range w.Days {
		if ids[w.Days[i].ID] {
			w.Days[i].IsOpen = true
			w.Days[i].OpenTime = openTime
			w.Days[i].CloseTime = closeTime
		}
	}

	if err := w.Save(store); err != nil {
		if days, loadErr := store.Load(); loadErr == nil && len(days) > 0 {
			w.Days = days
		} else {
			w.Days = before
		}
		return err
	}
	return nil
}

// Save persists the full 7-entry week as one replace-all write.
// Collaborator errors are propagated verbatim.
func (w *Week) Save(store Store) error {
	return store.Save(w.Days)
}

// IsOpenNow reports whether the store is open at the given instant per
// the weekly schedule. The comparison is a closed interval on "HH:MM"
// strings, so the close-time minute itself still counts as open.
func (w *Week) IsOpenNow(now time.Time) bool {
	w.MarkToday(now)
	today := w.Today()
	if today == nil || !today.IsOpen {
		return false
	}
	current := now.Format("15:04")
	return today.OpenTime <= current && current <= today.CloseTime
}
