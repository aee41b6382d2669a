package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/bazario/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusNew, StatusPreparing},
		{StatusNew, StatusCancelled},
		{StatusPreparing, StatusReady},
		{StatusRiderAssigned, StatusReady},
		{StatusReady, StatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{StatusNew, StatusReady},
		{StatusNew, StatusCompleted},
		{StatusPreparing, StatusCancelled},
		{StatusPreparing, StatusCompleted},
		{StatusReady, StatusCancelled},
		{StatusReady, StatusPreparing},
		{StatusCompleted, StatusNew},
		{StatusCancelled, StatusNew},
		{StatusCompleted, StatusCancelled},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		for target := range transitions {
			assert.False(t, CanTransition(terminal, target), "%s -> %s", terminal, target)
		}
	}
}

func TestTransitionMutatesOnlyOnSuccess(t *testing.T) {
	order := &models.Order{Status: StatusNew}

	assert.NoError(t, Transition(order, StatusPreparing))
	assert.Equal(t, StatusPreparing, order.Status)

	err := Transition(order, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPreparing, order.Status, "rejected move leaves the order untouched")
}

func TestIsKnown(t *testing.T) {
	for s := range statusMessages {
		assert.True(t, IsKnown(s))
	}
	assert.False(t, IsKnown("shipped"))
	assert.False(t, IsKnown(""))
}

func TestStatusMessages(t *testing.T) {
	cases := []struct {
		status      string
		message     string
		destructive bool
	}{
		{StatusNew, "Order received!", false},
		{StatusPreparing, "Order accepted! Moved to preparation.", false},
		{StatusReady, "Order marked as ready/packed.", false},
		{StatusRiderAssigned, "Rider assigned (Simulation).", false},
		{StatusCompleted, "Order completed.", false},
		{StatusCancelled, "Order cancelled.", true},
	}
	for _, tc := range cases {
		msg, destructive := StatusMessage(tc.status)
		assert.Equal(t, tc.message, msg)
		assert.Equal(t, tc.destructive, destructive, tc.status)
	}

	msg, destructive := StatusMessage("unknown")
	assert.Equal(t, "Order status updated", msg)
	assert.False(t, destructive)
}

func TestPartition(t *testing.T) {
	all := []models.Order{
		{OrderNumber: "ORD-1", Status: StatusNew},
		{OrderNumber: "ORD-2", Status: StatusCompleted},
		{OrderNumber: "ORD-3", Status: StatusPreparing},
		{OrderNumber: "ORD-4", Status: StatusCancelled},
		{OrderNumber: "ORD-5", Status: StatusRiderAssigned},
		{OrderNumber: "ORD-6", Status: StatusReady},
	}

	active, history := Partition(all)
	assert.Len(t, active, 4)
	assert.Len(t, history, 2)
	assert.Equal(t, "ORD-1", active[0].OrderNumber, "input order preserved")
	assert.Equal(t, "ORD-2", history[0].OrderNumber)
}

func TestMatchesSearch(t *testing.T) {
	order := models.Order{
		OrderNumber:  "ORD-1042",
		CustomerName: "Priya Patel",
		Status:       StatusNew,
	}

	assert.True(t, Matches(order, "", FilterAll))
	assert.True(t, Matches(order, "1042", FilterAll))
	assert.True(t, Matches(order, "ord-10", FilterAll), "case-insensitive order number")
	assert.True(t, Matches(order, "priya", FilterAll), "case-insensitive customer name")
	assert.True(t, Matches(order, "PATEL", FilterAll))
	assert.False(t, Matches(order, "rahul", FilterAll))
}

func TestMatchesStatusFilter(t *testing.T) {
	order := models.Order{
		OrderNumber:  "ORD-1042",
		CustomerName: "Priya Patel",
		Status:       StatusPreparing,
	}

	assert.True(t, Matches(order, "", StatusPreparing))
	assert.False(t, Matches(order, "", StatusNew))
	assert.True(t, Matches(order, "", FilterAll))
	assert.True(t, Matches(order, "", ""), "empty filter behaves like all")

	// Search and status filter AND together.
	assert.True(t, Matches(order, "priya", StatusPreparing))
	assert.False(t, Matches(order, "priya", StatusNew))
	assert.False(t, Matches(order, "rahul", StatusPreparing))
}
