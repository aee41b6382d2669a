package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfMapsLocalInstantsToStoredDates(t *testing.T) {
	// Holidays are stored as UTC-midnight dates parsed from
	// YYYY-MM-DD input.
	stored, err := time.Parse("2006-01-02", "2026-08-29")
	assert.NoError(t, err)
	assert.Equal(t, stored, dayOf(stored))

	// An early-morning instant in a zone ahead of UTC still belongs
	// to the same calendar date as the stored row.
	ist := time.FixedZone("IST", 5*3600+1800)
	earlyMorning := time.Date(2026, 8, 29, 3, 0, 0, 0, ist)
	assert.Equal(t, stored, dayOf(earlyMorning))

	lateNight := time.Date(2026, 8, 29, 23, 45, 0, 0, ist)
	assert.Equal(t, stored, dayOf(lateNight))

	// A UTC instant on the same date maps identically.
	assert.Equal(t, stored, dayOf(time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)))

	// The day before stays the day before.
	previous := time.Date(2026, 8, 28, 23, 59, 0, 0, ist)
	assert.Equal(t, "2026-08-28", dayOf(previous).Format("2006-01-02"))
}
