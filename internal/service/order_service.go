package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lavka/internal/domain"
	"lavka/internal/repository"
)

// OrderService реализует оформление заказа и жизненный цикл статусов
type OrderService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	logger   *zap.Logger
	taxRate  decimal.Decimal
}

func NewOrderService(
	products repository.ProductRepository,
	users repository.UserRepository,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	tx repository.TxManager,
	logger *zap.Logger,
	taxRate decimal.Decimal,
) *OrderService {
	return &OrderService{
		products: products,
		users:    users,
		carts:    carts,
		orders:   orders,
		tx:       tx,
		logger:   logger,
		taxRate:  taxRate,
	}
}

func validStatus(st domain.OrderStatus) bool {
	switch st {
	case domain.OrderStatusPending, domain.OrderStatusProcessing, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		return true
	}
	return false
}

// Checkout проверяет корзину по каталогу и атомарно списывает запас Physical-товаров.
// Позиции корзины копируются в заказ, дальнейшие изменения корзины заказ не трогают.
func (s *OrderService) Checkout(ctx context.Context, userID int64, shippingAddress string) (*domain.Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		cart, err := s.carts.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrInvalidInput
		}
		// validate and reserve, stopping at the first bad item;
		// accumulate updates to avoid partial state
		productCopies := make(map[int64]*domain.Product)
		for _, it := range cart.Items {
			p, err := s.products.GetByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("product %d: %w", it.ProductID, domain.ErrProductNotFound)
				}
				return err
			}
			if !p.InStock(it.Quantity) {
				return fmt.Errorf("product %d: %w", it.ProductID, domain.ErrOutOfStock)
			}
			if p.Category == domain.CategoryPhysical {
				p.Stock -= it.Quantity
				productCopies[p.ID] = p
			}
		}
		// persist product stock updates
		for _, p := range productCopies {
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
		}
		o := domain.NewOrder(cart, *user, shippingAddress, s.taxRate)
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		s.logger.Warn("checkout failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.Int64("user_id", userID),
		zap.String("total", created.Total.String()),
	)
	return created, nil
}

// Get возвращает заказ по id
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// UpdateStatus переводит заказ в новый статус от имени actor.
// Допустимость перехода проверяется раньше прав на отмену.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus, actorID int64) (*domain.Order, error) {
	if orderID == "" || actorID <= 0 || !validStatus(next) {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		actor, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if err := o.UpdateStatus(next, *actor); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		s.logger.Warn("status update rejected",
			zap.String("order_id", orderID),
			zap.String("next", string(next)),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("status", string(next)),
	)
	return updated, nil
}

// Summary проекция заказа для списков и уведомлений
func (s *OrderService) Summary(ctx context.Context, id string) (*domain.OrderSummary, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := o.Summary()
	return &sum, nil
}

// Deliveries выдаёт ссылки на скачивание для Digital-позиций заказа
func (s *OrderService) Deliveries(ctx context.Context, id string) ([]domain.DigitalDelivery, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.DigitalDeliveries(o), nil
}
