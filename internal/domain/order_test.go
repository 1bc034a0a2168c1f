package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		current, next OrderStatus
		want          bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := ValidTransition(tc.current, tc.next); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.current, tc.next, tc.want, got)
		}
	}
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	c := NewCart(1)
	c.AddItem(physical(1, 100, 10), 2)
	u := NewUser(1, "john", "john@example.com", "")
	return NewOrder(c, u, "Some street 1", decimal.NewFromInt(10))
}

func TestNewOrder(t *testing.T) {
	o := testOrder(t)
	if o.Status != OrderStatusPending {
		t.Fatalf("expected Pending, got %s", o.Status)
	}
	if !o.Subtotal.Equal(dec(200)) {
		t.Fatalf("subtotal expected 200, got %v", o.Subtotal)
	}
	// 10% tax, no discount
	if !o.Total.Equal(dec(220)) {
		t.Fatalf("total expected 220, got %v", o.Total)
	}
}

func TestNewOrder_CopiesCartItems(t *testing.T) {
	c := NewCart(1)
	p := physical(1, 100, 10)
	c.AddItem(p, 2)
	u := NewUser(1, "john", "john@example.com", "")
	o := NewOrder(c, u, "", decimal.Zero)

	// mutate cart after order creation
	c.AddItem(p, 5)
	c.Items[0].Quantity = 99

	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("order items affected by cart mutation: %v", o.Items)
	}
}

func TestNewOrderID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		if !strings.HasPrefix(id, "ORD-") {
			t.Fatalf("unexpected prefix: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestCanCancel(t *testing.T) {
	if CanCancel(NewUser(1, "c", "c@x", RoleCustomer)) {
		t.Fatalf("customer must not cancel")
	}
	if !CanCancel(NewUser(2, "a", "a@x", RoleAdmin)) {
		t.Fatalf("admin must cancel")
	}
	if !CanCancel(NewUser(3, "m", "m@x", RoleModerator)) {
		t.Fatalf("moderator must cancel")
	}
}

func TestOrder_UpdateStatus(t *testing.T) {
	admin := NewUser(2, "a", "a@x", RoleAdmin)
	customer := NewUser(3, "c", "c@x", RoleCustomer)

	o := testOrder(t)
	if err := o.UpdateStatus(OrderStatusShipped, admin); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	if err := o.UpdateStatus(OrderStatusCancelled, customer); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if o.Status != OrderStatusPending {
		t.Fatalf("status must not change on failure")
	}

	before := o.UpdatedAt
	if err := o.UpdateStatus(OrderStatusCancelled, admin); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if o.Status != OrderStatusCancelled {
		t.Fatalf("expected Cancelled, got %s", o.Status)
	}
	if o.UpdatedAt.Before(before) {
		t.Fatalf("UpdatedAt not refreshed")
	}
}

func TestOrder_UpdateStatus_TransitionCheckedBeforePermission(t *testing.T) {
	customer := NewUser(3, "c", "c@x", RoleCustomer)
	o := testOrder(t)
	o.Status = OrderStatusDelivered

	// both checks would fail here; the transition error must win
	err := o.UpdateStatus(OrderStatusCancelled, customer)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestOrder_Summary(t *testing.T) {
	c := NewCart(1)
	c.AddItem(physical(1, 10, 10), 2)
	c.AddItem(physical(2, 5, 10), 3)
	u := NewUser(1, "john", "john@example.com", "")
	o := NewOrder(c, u, "", decimal.NewFromInt(10))

	sum := o.Summary()
	if sum.ID != o.ID || sum.Status != o.Status {
		t.Fatalf("summary mismatch: %+v", sum)
	}
	if sum.ItemCount != 5 {
		t.Fatalf("item count expected 5, got %d", sum.ItemCount)
	}
	if !sum.Total.Equal(o.Total) {
		t.Fatalf("total mismatch: %v vs %v", sum.Total, o.Total)
	}
}

func TestDigitalDeliveries(t *testing.T) {
	c := NewCart(1)
	c.AddItem(NewProduct(1, "ebook", dec(5), CategoryDigital, 0, "https://downloads.lavka.dev/products/1"), 1)
	c.AddItem(NewProduct(2, "box", dec(10), CategoryPhysical, 3, ""), 1)
	c.AddItem(NewProduct(3, "plan", dec(15), CategorySubscription, 0, ""), 1)
	u := NewUser(1, "john", "john@example.com", "")
	o := NewOrder(c, u, "", decimal.Zero)

	dd := DigitalDeliveries(o)
	if len(dd) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(dd))
	}
	if dd[0].ProductID != 1 || dd[0].OrderID != o.ID {
		t.Fatalf("delivery mismatch: %+v", dd[0])
	}
	if !strings.Contains(dd[0].DownloadURL, "/products/1") {
		t.Fatalf("url not derived from product id: %s", dd[0].DownloadURL)
	}

	ttl := time.Until(dd[0].ExpiresAt)
	if ttl < 7*24*time.Hour-time.Minute || ttl > 7*24*time.Hour {
		t.Fatalf("expiry not ~7 days: %v", ttl)
	}
}

func TestDigitalDeliveries_NoDigitalItems(t *testing.T) {
	c := NewCart(1)
	c.AddItem(NewProduct(1, "box", dec(10), CategoryPhysical, 3, ""), 1)
	u := NewUser(1, "john", "john@example.com", "")
	o := NewOrder(c, u, "", decimal.Zero)

	dd := DigitalDeliveries(o)
	// empty, not nil: serializes as [] rather than null
	if dd == nil || len(dd) != 0 {
		t.Fatalf("expected empty slice, got %v", dd)
	}
}
