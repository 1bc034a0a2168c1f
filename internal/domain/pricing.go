package domain

import "github.com/shopspring/decimal"

// DiscountKind вид скидки
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "Percentage"
	DiscountFixed      DiscountKind = "Fixed"
	DiscountNone       DiscountKind = "None"
)

var hundred = decimal.NewFromInt(100)

// ApplyDiscount применяет скидку к сумме. Fixed не уводит сумму ниже нуля,
// Percentage не ограничивается снизу (value > 100 даёт отрицательный результат).
func ApplyDiscount(amount decimal.Decimal, kind DiscountKind, value decimal.Decimal) decimal.Decimal {
	switch kind {
	case DiscountPercentage:
		return amount.Sub(amount.Mul(value).Div(hundred))
	case DiscountFixed:
		res := amount.Sub(value)
		if res.IsNegative() {
			return decimal.Zero
		}
		return res
	default:
		return amount
	}
}

// Tax налог от суммы по ставке в процентах
func Tax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// CartTotal итог корзины: субтотал -> скидка -> налог на сумму после скидки
func CartTotal(c *Cart, kind DiscountKind, value, taxRate decimal.Decimal) decimal.Decimal {
	discounted := ApplyDiscount(c.Subtotal(), kind, value)
	return discounted.Add(Tax(discounted, taxRate))
}
