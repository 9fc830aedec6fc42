package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{ProductName: "Widget", Quantity: 3, Price: 19.99},
		{ProductName: "Gadget", Quantity: 1, Price: 250},
	}}

	total := o.ComputeTotal()

	assert.InDelta(t, 309.97, total, 0.001)
	assert.Equal(t, total, o.TotalAmount)
}

func TestComputeTotalOverwritesStale(t *testing.T) {
	o := Order{
		TotalAmount: 9999,
		Items:       []OrderItem{{ProductName: "Widget", Quantity: 2, Price: 10}},
	}

	assert.Equal(t, 20.0, o.ComputeTotal())
	assert.Equal(t, 20.0, o.TotalAmount)
}

func TestComputeTotalEmptyItems(t *testing.T) {
	o := Order{TotalAmount: 42}
	assert.Equal(t, 0.0, o.ComputeTotal())
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("returned"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Pending"))
}

func TestTerminalLogStatus(t *testing.T) {
	assert.True(t, TerminalLogStatus(LogStatusSent))
	assert.True(t, TerminalLogStatus(LogStatusFailed))
	assert.False(t, TerminalLogStatus(LogStatusPending))
	assert.False(t, TerminalLogStatus("delivered"))
}
