// Package repository holds the GORM-backed implementations of the
// store interfaces the domain packages depend on, keeping handlers and
// business rules free of global database state.
package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/schedule"
)

// TimingRepository persists the weekly schedule and holiday overrides.
// It implements schedule.Store.
type TimingRepository struct {
	db *gorm.DB
}

// NewTimingRepository constructs a TimingRepository.
func NewTimingRepository(db *gorm.DB) *TimingRepository {
	return &TimingRepository{db: db}
}

// Load returns the stored week in Monday-first order. An empty slice
// means no schedule has been saved yet.
func (r *TimingRepository) Load() ([]schedule.DayTiming, error) {
	var rows []models.StoreTiming
	if err := r.db.Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	days := make([]schedule.DayTiming, 0, len(rows))
	for _, row := range rows {
		days = append(days, schedule.DayTiming{
			ID:        row.DayID,
			Day:       row.Day,
			IsOpen:    row.IsOpen,
			OpenTime:  row.OpenTime,
			CloseTime: row.CloseTime,
		})
	}
	return days, nil
}

// Save replaces the whole stored week with the supplied days in one
// transaction.
func (r *TimingRepository) Save(days []schedule.DayTiming) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.StoreTiming{}).Error; err != nil {
			return err
		}
		for i, day := range days {
			row := models.StoreTiming{
				DayID:     day.ID,
				Day:       day.Day,
				Position:  i,
				IsOpen:    day.IsOpen,
				OpenTime:  day.OpenTime,
				CloseTime: day.CloseTime,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// dayOf collapses an instant to its calendar date at UTC midnight. The
// date fields come from the instant's own location, so a local "today"
// maps to the same row a parsed YYYY-MM-DD date produced.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddHoliday records a one-off closure. Saving the same date twice
// updates the reason instead of failing.
func (r *TimingRepository) AddHoliday(date time.Time, reason string) (*models.Holiday, error) {
	day := dayOf(date)

	var holiday models.Holiday
	err := r.db.Where("date = ?", day).First(&holiday).Error
	if err == nil {
		holiday.Reason = reason
		return &holiday, r.db.Save(&holiday).Error
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	holiday = models.Holiday{Date: day, Reason: reason}
	return &holiday, r.db.Create(&holiday).Error
}

// ListHolidays returns upcoming holidays, soonest first.
func (r *TimingRepository) ListHolidays(from time.Time) ([]models.Holiday, error) {
	var holidays []models.Holiday
	err := r.db.Where("date >= ?", dayOf(from)).
		Order("date asc").
		Find(&holidays).Error
	return holidays, err
}

// HolidayOn returns the holiday covering the given date, if any.
func (r *TimingRepository) HolidayOn(date time.Time) (*models.Holiday, error) {
	var holiday models.Holiday
	err := r.db.Where("date = ?", dayOf(date)).First(&holiday).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &holiday, nil
}
