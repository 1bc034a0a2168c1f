package service

import (
	"context"

	"github.com/shopspring/decimal"

	"lavka/internal/domain"
	"lavka/internal/repository"
)

// CartService операции с корзиной: создание, добавление позиций, расчёт итогов
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository) *CartService {
	return &CartService{carts: carts, products: products, users: users}
}

// CartQuote разбивка итогов корзины: субтотал, сумма после скидки, налог, итог
type CartQuote struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discounted decimal.Decimal `json:"discounted"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

func validDiscountKind(k domain.DiscountKind) bool {
	switch k {
	case "", domain.DiscountNone, domain.DiscountPercentage, domain.DiscountFixed:
		return true
	}
	return false
}

// Create заводит пользователю новую пустую корзину; старая, если была, заменяется
func (s *CartService) Create(ctx context.Context, userID int64) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	c := domain.NewCart(userID)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.carts.GetByUserID(ctx, userID)
}

// AddItem добавляет товар в корзину пользователя и сохраняет её
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.Cart, error) {
	if userID <= 0 || productID <= 0 || quantity <= 0 {
		return nil, ErrInvalidInput
	}
	c, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.AddItem(*p, quantity)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Quote считает итоги корзины по запрошенной скидке и налоговой ставке
func (s *CartService) Quote(ctx context.Context, userID int64, kind domain.DiscountKind, value, taxRate decimal.Decimal) (*CartQuote, error) {
	if userID <= 0 || !validDiscountKind(kind) {
		return nil, ErrInvalidInput
	}
	c, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	subtotal := c.Subtotal()
	discounted := domain.ApplyDiscount(subtotal, kind, value)
	tax := domain.Tax(discounted, taxRate)
	return &CartQuote{
		Subtotal:   subtotal,
		Discounted: discounted,
		Tax:        tax,
		Total:      discounted.Add(tax),
	}, nil
}

// Validate сверяет корзину с текущим каталогом, останавливаясь на первой ошибке
func (s *CartService) Validate(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	c, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	catalog, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return err
	}
	return domain.ValidateCart(c, catalog)
}
