package models

import "time"

// StoreTiming is one persisted weekday row of the weekly schedule.
// The whole week is saved replace-all; Position keeps Monday-first
// ordering stable across reloads.
type StoreTiming struct {
	BaseModel
	DayID     string `gorm:"uniqueIndex" json:"day_id"` // mon..sun
	Day       string `json:"day"`
	Position  int    `json:"position"`
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`  // "HH:MM", 24-hour
	CloseTime string `json:"close_time"` // "HH:MM", 24-hour
}

// Holiday is a one-off full-day closure, recorded independently of the
// weekly schedule.
type Holiday struct {
	BaseModel
	Date   time.Time `gorm:"uniqueIndex;type:date" json:"date"`
	Reason string    `json:"reason"`
}
