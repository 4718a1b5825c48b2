package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"placed to confirmed", OrderPlaced, OrderConfirmed, true},
		{"placed to cancelled", OrderPlaced, OrderCancelled, true},
		{"confirmed to processing", OrderConfirmed, OrderProcessing, true},
		{"processing to shipped", OrderProcessing, OrderShipped, true},
		{"shipped to out for delivery", OrderShipped, OrderOutForDelivery, true},
		{"out for delivery to delivered", OrderOutForDelivery, OrderDelivered, true},
		{"delivered to returned", OrderDelivered, OrderReturned, true},
		{"same status amends tracking", OrderShipped, OrderShipped, true},
		{"shipped cannot cancel", OrderShipped, OrderCancelled, false},
		{"delivered cannot regress", OrderDelivered, OrderPlaced, false},
		{"cancelled is terminal", OrderCancelled, OrderConfirmed, false},
		{"returned is terminal", OrderReturned, OrderDelivered, false},
		{"cannot return before delivery", OrderProcessing, OrderReturned, false},
		{"placed cannot skip to delivered", OrderPlaced, OrderDelivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
