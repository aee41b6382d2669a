package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/config"
	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/orders"
)

// CommissionHandler reports the platform commission owed on completed
// orders.
type CommissionHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCommissionHandler constructs CommissionHandler.
func NewCommissionHandler(db *gorm.DB, cfg *config.Config) *CommissionHandler {
	return &CommissionHandler{db: db, cfg: cfg}
}

// commissionWindow resolves the named period to a [from, to) range.
func commissionWindow(period string, now time.Time) (time.Time, time.Time, bool) {
	year, month, _ := now.Date()
	switch period {
	case "week":
		// Monday-first week, matching the store schedule.
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(year, month, now.Day()-offset, 0, 0, 0, 0, now.Location())
		return start, now, true
	case "month":
		start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		return start, now, true
	case "last_month":
		start := time.Date(year, month-1, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// Summary returns the commission breakdown for the requested period.
// Commission accrues on completed orders only; orders completed in the
// current, unsettled period count as pending.
func (h *CommissionHandler) Summary(c *fiber.Ctx) error {
	period := c.Query("period", "month")
	now := time.Now()

	from, to, ok := commissionWindow(period, now)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period, use week, month or last_month")
	}

	var completed []models.Order
	err := h.db.Where("status = ? AND placed_at >= ? AND placed_at < ?",
		orders.StatusCompleted, from, to).
		Order("placed_at DESC").
		Find(&completed).Error
	if err != nil {
		return err
	}

	rate := h.cfg.CommissionPercent

	type orderCommission struct {
		OrderNumber string    `json:"order_number"`
		PlacedAt    time.Time `json:"placed_at"`
		OrderTotal  float64   `json:"order_total"`
		Commission  float64   `json:"commission"`
	}

	breakdown := make([]orderCommission, 0, len(completed))
	var gross, commission float64
	for _, o := range completed {
		fee := o.TotalAmount * rate / 100
		gross += o.TotalAmount
		commission += fee
		breakdown = append(breakdown, orderCommission{
			OrderNumber: o.OrderNumber,
			PlacedAt:    o.PlacedAt,
			OrderTotal:  o.TotalAmount,
			Commission:  fee,
		})
	}

	settled := period == "last_month"
	pending := commission
	settledAmount := 0.0
	if settled {
		settledAmount = commission
		pending = 0
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"period":           period,
			"commission_rate":  rate,
			"gross_sales":      gross,
			"total_commission": commission,
			"pending":          pending,
			"settled":          settledAmount,
			"net_earnings":     gross - commission,
			"orders":           breakdown,
		},
	})
}
