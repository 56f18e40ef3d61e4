package model

import "testing"

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name     string
		got      OrderStatus
		value    string
		terminal bool
	}{
		{"pending", OrderStatusPending, "pending", false},
		{"confirmed", OrderStatusConfirmed, "confirmed", false},
		{"preparing", OrderStatusPreparing, "preparing", false},
		{"ready", OrderStatusReady, "ready", false},
		{"in delivery", OrderStatusInDelivery, "in_delivery", false},
		{"completed", OrderStatusCompleted, "completed", true},
		{"cancelled", OrderStatusCancelled, "cancelled", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
			if tc.got.Terminal() != tc.terminal {
				t.Fatalf("unexpected terminal flag for %s", tc.got)
			}
		})
	}

	if OrderStatus("archived").Valid() {
		t.Fatal("did not expect unknown status to be valid")
	}
}

func TestEnumsValidity(t *testing.T) {
	if !FulfillmentDelivery.Valid() || !FulfillmentPickup.Valid() || FulfillmentType("drone").Valid() {
		t.Fatal("unexpected fulfillment validity")
	}
	for _, m := range []PaymentMethod{PaymentCash, PaymentCardOnline, PaymentCardOnSite} {
		if !m.Valid() {
			t.Fatalf("expected %s to be valid", m)
		}
	}
	if PaymentMethod("barter").Valid() {
		t.Fatal("did not expect unknown payment method to be valid")
	}
	if !RoleOperator.Staff() || !RoleAdmin.Staff() || RoleCustomer.Staff() {
		t.Fatal("unexpected staff flags")
	}
}

func TestPricingBalanced(t *testing.T) {
	p := Pricing{ProductsTotal: 2000, PickupDiscount: 200, FinalTotal: 1800}
	if !p.Balanced() {
		t.Fatal("expected pricing to be balanced")
	}
	p.FinalTotal = 1900
	if p.Balanced() {
		t.Fatal("expected mismatch to be detected")
	}
	if (Pricing{ProductsTotal: 10, PickupDiscount: 20, FinalTotal: -10}).Balanced() {
		t.Fatal("expected negative total to be rejected")
	}
}

func TestLineItemSubtotalAndLastEntry(t *testing.T) {
	item := LineItem{UnitPrice: 350, Quantity: 3}
	if item.Subtotal() != 1050 {
		t.Fatalf("unexpected subtotal %d", item.Subtotal())
	}

	var o Order
	if _, ok := o.LastEntry(); ok {
		t.Fatal("expected no entry for empty history")
	}
	o.StatusHistory = []StatusEntry{{Status: OrderStatusPending}, {Status: OrderStatusConfirmed}}
	last, ok := o.LastEntry()
	if !ok || last.Status != OrderStatusConfirmed {
		t.Fatalf("unexpected last entry %+v", last)
	}
}
