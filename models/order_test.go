package models

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDispatched, false},
		{OrderStatusProcessing, OrderStatusDispatched, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusDispatched, OrderStatusDelivered, true},
		// reverse path used when a shipment is cancelled
		{OrderStatusDispatched, OrderStatusProcessing, true},
		{OrderStatusDispatched, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusIntakeTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDispatched, false},
		// the dispatched→processing reversal belongs to shipment cancellation,
		// never to the plain status endpoint
		{OrderStatusDispatched, OrderStatusProcessing, false},
		{OrderStatusDispatched, OrderStatusDelivered, false},
		{OrderStatusDispatched, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanIntakeTransitionTo(tt.to); got != tt.want {
			t.Errorf("intake %s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestShipmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from ShipmentStatus
		to   ShipmentStatus
		want bool
	}{
		{ShipmentStatusBooked, ShipmentStatusInTransit, true},
		{ShipmentStatusBooked, ShipmentStatusOutForDelivery, true},
		{ShipmentStatusBooked, ShipmentStatusDelivered, false},
		{ShipmentStatusInTransit, ShipmentStatusDelivered, true},
		{ShipmentStatusInTransit, ShipmentStatusReturned, true},
		{ShipmentStatusOutForDelivery, ShipmentStatusDelivered, true},
		{ShipmentStatusOutForDelivery, ShipmentStatusCancelled, false},
		{ShipmentStatusDelivered, ShipmentStatusInTransit, false},
		{ShipmentStatusCancelled, ShipmentStatusBooked, false},
		{ShipmentStatusReturned, ShipmentStatusInTransit, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestShipmentStatusIsTerminal(t *testing.T) {
	terminal := []ShipmentStatus{ShipmentStatusDelivered, ShipmentStatusReturned, ShipmentStatusCancelled, ShipmentStatusFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	active := []ShipmentStatus{ShipmentStatusBooked, ShipmentStatusInTransit, ShipmentStatusOutForDelivery}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestShipmentStatusCanCancel(t *testing.T) {
	tests := []struct {
		status ShipmentStatus
		want   bool
	}{
		{ShipmentStatusBooked, true},
		{ShipmentStatusInTransit, true},
		{ShipmentStatusOutForDelivery, true},
		{ShipmentStatusFailed, true},
		{ShipmentStatusReturned, true},
		{ShipmentStatusDelivered, false},
		{ShipmentStatusCancelled, false},
	}
	for _, tt := range tests {
		if got := tt.status.CanCancel(); got != tt.want {
			t.Errorf("CanCancel from %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}
