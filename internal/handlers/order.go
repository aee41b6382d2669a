package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/orders"
	"github.com/example/bazario/internal/repository"
	"github.com/example/bazario/internal/services"
	"github.com/example/bazario/internal/utils"
)

// OrderHandler manages the store owner's order views and status
// transitions.
type OrderHandler struct {
	repo     *repository.OrderRepository
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(repo *repository.OrderRepository, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{repo: repo, telegram: telegram}
}

// ListOrders returns the order list partitioned into active and
// history sets, with the combined search/status filter applied and the
// active set grouped by status for sectioned display.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	all, err := h.repo.List("")
	if err != nil {
		return err
	}

	search := c.Query("search")
	statusFilter := c.Query("status", orders.FilterAll)

	filtered := make([]models.Order, 0, len(all))
	for _, o := range all {
		if orders.Matches(o, search, statusFilter) {
			filtered = append(filtered, o)
		}
	}

	active, history := orders.Partition(filtered)

	// The active list is always shown in full; history is paginated.
	page := utils.ParsePagination(c)
	historyTotal := len(history)
	if page.Offset >= len(history) {
		history = nil
	} else {
		end := page.Offset + page.Limit
		if end > len(history) {
			end = len(history)
		}
		history = history[page.Offset:end]
	}

	sections := fiber.Map{}
	for _, status := range []string{orders.StatusNew, orders.StatusPreparing, orders.StatusRiderAssigned, orders.StatusReady} {
		group := make([]models.Order, 0)
		for _, o := range active {
			if o.Status == status {
				group = append(group, o)
			}
		}
		sections[status] = group
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"active":        active,
			"history":       history,
			"history_total": historyTotal,
			"page":          page.Page,
			"limit":         page.Limit,
			"sections":      sections,
		},
	})
}

// GetOrder loads one order with items.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus performs one lifecycle transition: validate against the
// transition table, persist durably, then emit the status
// notification.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !orders.IsKnown(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	order, err := h.repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := orders.Transition(order, req.Status); err != nil {
		return fiber.NewError(fiber.StatusConflict,
			"cannot move order from "+order.Status+" to "+req.Status)
	}

	if err := h.repo.UpdateStatus(id, order.Status); err != nil {
		return err
	}

	message, destructive := orders.StatusMessage(order.Status)
	if h.telegram != nil {
		if err := h.telegram.NotifyOrderStatus(*order); err != nil {
			log.Printf("[Order] Status notification failed for %s: %v", order.OrderNumber, err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
		"message": message,
		"variant": notificationVariant(destructive),
	})
}

func notificationVariant(destructive bool) string {
	if destructive {
		return "destructive"
	}
	return "default"
}

// Stats returns aggregate order counters for the dashboard header.
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	all, err := h.repo.List("")
	if err != nil {
		return err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayCount, todayRevenue, err := h.repo.CountSince(startOfDay, now)
	if err != nil {
		return err
	}

	var revenue float64
	counts := map[string]int{}
	for _, o := range all {
		counts[o.Status]++
		if o.Status != orders.StatusCancelled {
			revenue += o.TotalAmount
		}
	}

	active, history := orders.Partition(all)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":     len(all),
			"total_revenue":    revenue,
			"active_orders":    len(active),
			"completed_orders": counts[orders.StatusCompleted],
			"cancelled_orders": counts[orders.StatusCancelled],
			"by_status":        counts,
			"history_orders":   len(history),
			"today_orders":     todayCount,
			"today_revenue":    todayRevenue,
		},
	})
}
