package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem снимок товара в корзине: цена и название фиксируются в момент добавления
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  ProductCategory `json:"category"`
	Quantity  int64           `json:"quantity"`
}

// Cart корзина пользователя. Порядок позиций — порядок добавления.
type Cart struct {
	UserID    int64      `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(userID int64) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem мутирует корзину на месте: если товар уже есть — увеличивает количество,
// иначе добавляет новую позицию-снимок. Количество и наличие здесь не проверяются,
// проверка запаса — отдельный явный шаг (ValidateCart).
func (c *Cart) AddItem(p Product, quantity int64) {
	c.UpdatedAt = time.Now().UTC()
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  quantity,
	})
}

// Subtotal сумма price*quantity по всем позициям; пустая корзина — 0
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}
