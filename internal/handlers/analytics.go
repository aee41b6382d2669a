package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/orders"
)

// AnalyticsHandler computes dashboard aggregates over the order
// history.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// periodDays maps the period query parameter to a day span.
var periodDays = map[string]int{
	"1d":  1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

type periodTotals struct {
	Revenue float64
	Orders  int64
}

func (h *AnalyticsHandler) totalsBetween(from, to time.Time) (periodTotals, error) {
	var t periodTotals
	err := h.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("placed_at >= ? AND placed_at < ?", from, to).
		Where("status <> ?", orders.StatusCancelled).
		Scan(&t).Error
	if err != nil {
		return periodTotals{}, err
	}
	return t, nil
}

// growthPercent returns the relative change against the previous
// period, or zero when there is no baseline.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Dashboard returns revenue, order count, average order value, top
// products and growth against the preceding period of equal length.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	period := c.Query("period", "7d")
	days, ok := periodDays[period]
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period, use 1d, 7d, 30d or 90d")
	}

	now := time.Now()
	from := now.AddDate(0, 0, -days)
	prevFrom := from.AddDate(0, 0, -days)

	current, err := h.totalsBetween(from, now)
	if err != nil {
		return err
	}
	previous, err := h.totalsBetween(prevFrom, from)
	if err != nil {
		return err
	}

	avgOrderValue := 0.0
	if current.Orders > 0 {
		avgOrderValue = current.Revenue / float64(current.Orders)
	}

	type popularProduct struct {
		ProductName string  `json:"product_name"`
		Quantity    int64   `json:"quantity"`
		Revenue     float64 `json:"revenue"`
	}
	var popular []popularProduct
	err = h.db.Table("order_items").
		Select("order_items.product_name, SUM(order_items.quantity) AS quantity, SUM(order_items.quantity * order_items.unit_price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.placed_at >= ? AND orders.status <> ?", from, orders.StatusCancelled).
		Group("order_items.product_name").
		Order("quantity DESC").
		Limit(5).
		Scan(&popular).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"period":           period,
			"revenue":          current.Revenue,
			"orders":           current.Orders,
			"avg_order_value":  avgOrderValue,
			"revenue_growth":   growthPercent(current.Revenue, previous.Revenue),
			"orders_growth":    growthPercent(float64(current.Orders), float64(previous.Orders)),
			"popular_products": popular,
			"previous_revenue": previous.Revenue,
			"previous_orders":  previous.Orders,
		},
	})
}

// RevenueSeries returns daily revenue points for the chart.
func (h *AnalyticsHandler) RevenueSeries(c *fiber.Ctx) error {
	period := c.Query("period", "7d")
	days, ok := periodDays[period]
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period, use 1d, 7d, 30d or 90d")
	}

	from := time.Now().AddDate(0, 0, -days)

	type dayPoint struct {
		Day     time.Time `json:"day"`
		Revenue float64   `json:"revenue"`
		Orders  int64     `json:"orders"`
	}
	var series []dayPoint
	err := h.db.Table("orders").
		Select("DATE_TRUNC('day', placed_at) AS day, COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("placed_at >= ? AND status <> ?", from, orders.StatusCancelled).
		Group("day").
		Order("day").
		Scan(&series).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"period": period,
			"series": series,
		},
	})
}
