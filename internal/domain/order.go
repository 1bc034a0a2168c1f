package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// допустимые переходы статуса; Delivered и Cancelled — терминальные
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ValidTransition true только для пар из таблицы переходов;
// переход в тот же статус невалиден
func ValidTransition(current, next OrderStatus) bool {
	for _, allowed := range statusTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPermissionDenied  = errors.New("permission denied")
)

// Order сущность заказа. Items — копия позиций корзины на момент создания,
// последующие изменения корзины на заказ не влияют.
type Order struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"user_id"`
	Items           []CartItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewOrder создаёт заказ из корзины: скидка не применяется, налог считается
// по переданной ставке. Начальный статус всегда Pending.
func NewOrder(cart *Cart, user User, shippingAddress string, taxRate decimal.Decimal) *Order {
	now := time.Now().UTC()
	items := make([]CartItem, len(cart.Items))
	copy(items, cart.Items)
	subtotal := cart.Subtotal()
	return &Order{
		ID:              NewOrderID(),
		UserID:          user.ID,
		Items:           items,
		Subtotal:        subtotal,
		Total:           subtotal.Add(Tax(subtotal, taxRate)),
		Status:          OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewOrderID формат: ORD-<unix millis>-<случайный суффикс>
func NewOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// CanCancel отменять заказы могут только Admin и Moderator
func CanCancel(u User) bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// UpdateStatus мутирует заказ на месте. Сначала проверяется допустимость
// перехода, затем права на отмену — именно в этом порядке.
func (o *Order) UpdateStatus(next OrderStatus, actor User) error {
	if !ValidTransition(o.Status, next) {
		return fmt.Errorf("%s -> %s: %w", o.Status, next, ErrInvalidTransition)
	}
	if next == OrderStatusCancelled && !CanCancel(actor) {
		return fmt.Errorf("role %s: %w", actor.Role, ErrPermissionDenied)
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// OrderSummary read-only проекция заказа, нигде не хранится
type OrderSummary struct {
	ID        string          `json:"id"`
	Status    OrderStatus     `json:"status"`
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Summary считает ItemCount как сумму количеств по позициям
func (o *Order) Summary() OrderSummary {
	var count int64
	for _, it := range o.Items {
		count += it.Quantity
	}
	return OrderSummary{
		ID:        o.ID,
		Status:    o.Status,
		ItemCount: count,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
}

// DigitalDelivery ссылка на скачивание с ограниченным сроком действия
type DigitalDelivery struct {
	OrderID     string    `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// срок действия ссылки на скачивание
const deliveryTTL = 7 * 24 * time.Hour

// DigitalDeliveries формирует выдачу только для Digital-позиций;
// Subscription в доставку не попадает
func DigitalDeliveries(o *Order) []DigitalDelivery {
	now := time.Now().UTC()
	out := make([]DigitalDelivery, 0)
	for _, it := range o.Items {
		if it.Category != CategoryDigital {
			continue
		}
		out = append(out, DigitalDelivery{
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			DownloadURL: fmt.Sprintf("https://downloads.lavka.dev/products/%d", it.ProductID),
			ExpiresAt:   now.Add(deliveryTTL),
		})
	}
	return out
}
