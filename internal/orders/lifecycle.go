// Package orders holds the order lifecycle rules: which status
// transitions are legal, the notification copy each status carries,
// and the active/history partitioning used by the dashboard.
package orders

import (
	"errors"
	"strings"

	"github.com/example/bazario/internal/models"
)

// Order statuses. completed and cancelled are terminal.
const (
	StatusNew           = "new"
	StatusPreparing     = "preparing"
	StatusReady         = "ready"
	StatusRiderAssigned = "rider_assigned"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
)

// FilterAll disables status filtering in Matches.
const FilterAll = "all"

// ErrInvalidTransition is returned when a target status is not
// reachable from the order's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions lists the reachable target statuses per current status.
// rider_assigned is a lateral branch: like preparing, its only exit is
// to ready.
var transitions = map[string][]string{
	StatusNew:           {StatusPreparing, StatusCancelled},
	StatusPreparing:     {StatusReady},
	StatusRiderAssigned: {StatusReady},
	StatusReady:         {StatusCompleted},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// statusMessages is the exact user-facing copy per status.
var statusMessages = map[string]string{
	StatusNew:           "Order received!",
	StatusPreparing:     "Order accepted! Moved to preparation.",
	StatusReady:         "Order marked as ready/packed.",
	StatusRiderAssigned: "Rider assigned (Simulation).",
	StatusCompleted:     "Order completed.",
	StatusCancelled:     "Order cancelled.",
}

// IsKnown reports whether s is one of the six order statuses.
func IsKnown(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether target is reachable from current.
func CanTransition(current, target string) bool {
	for _, t := range transitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition validates the move and mutates the order's status in
// place. On ErrInvalidTransition the order is left untouched.
func Transition(order *models.Order, target string) error {
	if !CanTransition(order.Status, target) {
		return ErrInvalidTransition
	}
	order.Status = target
	return nil
}

// StatusMessage returns the notification copy for a status and whether
// the notification should be rendered as destructive. Only cancelled
// is destructive.
func StatusMessage(status string) (message string, destructive bool) {
	msg, ok := statusMessages[status]
	if !ok {
		return "Order status updated", false
	}
	return msg, status == StatusCancelled
}

// IsActive reports whether the status belongs to the active partition
// of the order list.
func IsActive(status string) bool {
	switch status {
	case StatusNew, StatusPreparing, StatusReady, StatusRiderAssigned:
		return true
	}
	return false
}

// IsHistory reports whether the status belongs to the history
// partition (terminal states).
func IsHistory(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Matches applies the dashboard's combined filter: a case-insensitive
// free-text match against order number or customer name, ANDed with a
// status equality check ("all" disables the status check).
func Matches(order models.Order, search, statusFilter string) bool {
	if statusFilter != "" && statusFilter != FilterAll && order.Status != statusFilter {
		return false
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(order.OrderNumber), needle) ||
		strings.Contains(strings.ToLower(order.CustomerName), needle)
}

// Partition splits orders into active and history sets, preserving
// order.
func Partition(all []models.Order) (active, history []models.Order) {
	for _, o := range all {
		switch {
		case IsActive(o.Status):
			active = append(active, o)
		case IsHistory(o.Status):
			history = append(history, o)
		}
	}
	return active, history
}
