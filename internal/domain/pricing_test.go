package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		kind   DiscountKind
		value  float64
		want   float64
	}{
		{"percentage", 100, DiscountPercentage, 10, 90},
		{"fixed", 100, DiscountFixed, 30, 70},
		{"fixed clamped at zero", 100, DiscountFixed, 150, 0},
		{"none ignores value", 100, DiscountNone, 999, 100},
		{"percentage over 100 goes negative", 100, DiscountPercentage, 150, -50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyDiscount(dec(tc.amount), tc.kind, dec(tc.value))
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTax(t *testing.T) {
	if got := Tax(dec(90), dec(8)); !got.Equal(dec(7.2)) {
		t.Fatalf("expected 7.2, got %v", got)
	}
	if got := Tax(dec(100), decimal.Zero); !got.Equal(decimal.Zero) {
		t.Fatalf("zero rate expected 0, got %v", got)
	}
}

func TestCartTotal_TaxOnDiscountedAmount(t *testing.T) {
	c := NewCart(1)
	c.AddItem(physical(1, 100, 10), 1)

	// 100 -> 90 after 10% discount -> 90 + 7.2 tax
	got := CartTotal(c, DiscountPercentage, dec(10), dec(8))
	if !got.Equal(dec(97.2)) {
		t.Fatalf("expected 97.2, got %v", got)
	}
}

func TestCartTotal_NoDiscountNoTax(t *testing.T) {
	c := NewCart(1)
	c.AddItem(physical(1, 100, 10), 1)
	if got := CartTotal(c, DiscountNone, decimal.Zero, decimal.Zero); !got.Equal(dec(100)) {
		t.Fatalf("expected 100, got %v", got)
	}
}
