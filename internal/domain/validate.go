package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("out of stock")
)

// ValidateCart сверяет корзину с каталогом: для каждой позиции сначала
// проверяется наличие товара, затем запас. Останавливается на первой
// невалидной позиции и сообщает, какой товар не прошёл.
func ValidateCart(c *Cart, products []Product) error {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return fmt.Errorf("product %d: %w", it.ProductID, ErrProductNotFound)
		}
		if !p.InStock(it.Quantity) {
			return fmt.Errorf("product %d: %w", it.ProductID, ErrOutOfStock)
		}
	}
	return nil
}
