package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bazario/internal/repository"
	"github.com/example/bazario/internal/schedule"
	"github.com/example/bazario/internal/services"
)

// TimingHandler manages store operating hours and holiday overrides.
type TimingHandler struct {
	timings  *repository.TimingRepository
	telegram *services.TelegramService
}

// NewTimingHandler constructs TimingHandler.
func NewTimingHandler(timings *repository.TimingRepository, telegram *services.TelegramService) *TimingHandler {
	return &TimingHandler{timings: timings, telegram: telegram}
}

// GetTimings returns the weekly schedule with today's entry marked,
// falling back to the default week when nothing is stored yet.
func (h *TimingHandler) GetTimings(c *fiber.Ctx) error {
	week, err := schedule.Load(h.timings, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": week.Days})
}

type updateTimingsRequest struct {
	Timings []schedule.DayTiming `json:"timings"`
}

// UpdateTimings persists the full week as one replace-all write.
func (h *TimingHandler) UpdateTimings(c *fiber.Ctx) error {
	var req updateTimingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Timings) != 7 {
		return fiber.NewError(fiber.StatusBadRequest, "schedule must contain all 7 days")
	}

	week := schedule.Week{Days: req.Timings}
	if err := week.Save(h.timings); err != nil {
		return err
	}

	week.MarkToday(time.Now())
	return c.JSON(fiber.Map{
		"success": true,
		"data":    week.Days,
		"message": "Store timings saved",
	})
}

type bulkEditRequest struct {
	DayIDs    []string `json:"day_ids"`
	OpenTime  string   `json:"open_time"`
	CloseTime string   `json:"close_time"`
}

// BulkEdit applies one open/close pair to the selected days, forcing
// them open, and persists the whole week immediately. The optimistic
// mutation is rolled back by reload when the save fails.
func (h *TimingHandler) BulkEdit(c *fiber.Ctx) error {
	var req bulkEditRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	week, err := schedule.Load(h.timings, time.Now())
	if err != nil {
		return err
	}

	if err := week.BulkApply(h.timings, req.DayIDs, req.OpenTime, req.CloseTime); err != nil {
		if errors.Is(err, schedule.ErrNoDaysSelected) {
			return fiber.NewError(fiber.StatusBadRequest, "please select at least one day to update")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    week.Days,
		"message": "Bulk edit applied",
	})
}

// ToggleDay flips one day's open flag and persists the week.
func (h *TimingHandler) ToggleDay(c *fiber.Ctx) error {
	dayID := c.Params("id")

	week, err := schedule.Load(h.timings, time.Now())
	if err != nil {
		return err
	}

	if err := week.ToggleDay(dayID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unknown day id")
	}

	if err := week.Save(h.timings); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": week.Days})
}

// StoreStatus reports whether the store is open right now. A holiday
// recorded for today closes the store regardless of the weekly
// schedule.
func (h *TimingHandler) StoreStatus(c *fiber.Ctx) error {
	now := time.Now()

	week, err := schedule.Load(h.timings, now)
	if err != nil {
		return err
	}

	openPerSchedule := week.IsOpenNow(now)

	holiday, err := h.timings.HolidayOn(now)
	if err != nil {
		return err
	}

	open := openPerSchedule && holiday == nil
	data := fiber.Map{
		"is_open":           open,
		"open_per_schedule": openPerSchedule,
		"today":             week.Today(),
	}
	if holiday != nil {
		data["holiday"] = holiday
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

type setHolidayRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// SetHoliday records a one-off closure date.
func (h *TimingHandler) SetHoliday(c *fiber.Ctx) error {
	var req setHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Date == "" {
		return fiber.NewError(fiber.StatusBadRequest, "please select a date for the holiday")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	holiday, err := h.timings.AddHoliday(date, req.Reason)
	if err != nil {
		return err
	}

	if h.telegram != nil {
		_ = h.telegram.NotifyHoliday(req.Date, req.Reason)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    holiday,
		"message": "Holiday set",
	})
}

// ListHolidays returns upcoming closures.
func (h *TimingHandler) ListHolidays(c *fiber.Ctx) error {
	holidays, err := h.timings.ListHolidays(time.Now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": holidays})
}
