package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"lavka/internal/domain"
	"lavka/internal/repository"
)

func TestCart_CreateRequiresUser(t *testing.T) {
	ctx := context.Background()
	_, _, cs, _ := setup(t)

	if _, err := cs.Create(ctx, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := cs.Create(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCart_AddItem_Accumulates(t *testing.T) {
	ctx := context.Background()
	ps, us, cs, _ := setup(t)

	u, _ := us.Register(ctx, domain.User{Username: "john", Email: "john@example.com"})
	p, _ := ps.Create(ctx, domain.Product{Name: "Box", Price: dec(10), Category: domain.CategoryPhysical, Stock: 10})
	if _, err := cs.Create(ctx, u.ID); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	if _, err := cs.AddItem(ctx, u.ID, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := cs.AddItem(ctx, u.ID, p.ID, 3)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 5 {
		t.Fatalf("expected one item with qty 5, got %v", c.Items)
	}

	// persisted state matches
	got, _ := cs.Get(ctx, u.ID)
	if len(got.Items) != 1 || got.Items[0].Quantity != 5 {
		t.Fatalf("persisted cart mismatch: %v", got.Items)
	}
}

func TestCart_AddItem_Validation(t *testing.T) {
	ctx := context.Background()
	_, us, cs, _ := setup(t)

	u, _ := us.Register(ctx, domain.User{Username: "john", Email: "john@example.com"})
	if _, err := cs.Create(ctx, u.ID); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	if _, err := cs.AddItem(ctx, u.ID, 1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := cs.AddItem(ctx, u.ID, 99, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected unknown product, got %v", err)
	}
}

func TestCart_Quote(t *testing.T) {
	ctx := context.Background()
	ps, us, cs, _ := setup(t)

	u, _ := us.Register(ctx, domain.User{Username: "john", Email: "john@example.com"})
	p, _ := ps.Create(ctx, domain.Product{Name: "Box", Price: dec(100), Category: domain.CategoryPhysical, Stock: 10})
	if _, err := cs.Create(ctx, u.ID); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := cs.AddItem(ctx, u.ID, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	q, err := cs.Quote(ctx, u.ID, domain.DiscountPercentage, dec(10), dec(8))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !q.Subtotal.Equal(dec(100)) || !q.Discounted.Equal(dec(90)) {
		t.Fatalf("discount math: %+v", q)
	}
	if !q.Tax.Equal(dec(7.2)) || !q.Total.Equal(dec(97.2)) {
		t.Fatalf("tax on discounted amount expected 7.2/97.2, got %+v", q)
	}

	if _, err := cs.Quote(ctx, u.ID, "Weird", decimal.Zero, decimal.Zero); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid discount kind, got %v", err)
	}
}

func TestCart_Validate(t *testing.T) {
	ctx := context.Background()
	ps, us, cs, _ := setup(t)

	u, _ := us.Register(ctx, domain.User{Username: "john", Email: "john@example.com"})
	p, _ := ps.Create(ctx, domain.Product{Name: "Box", Price: dec(10), Category: domain.CategoryPhysical, Stock: 2})
	if _, err := cs.Create(ctx, u.ID); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := cs.AddItem(ctx, u.ID, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := cs.Validate(ctx, u.ID); err != nil {
		t.Fatalf("expected valid cart: %v", err)
	}

	// someone else bought the stock
	p.Stock = 1
	if _, err := ps.Update(ctx, *p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := cs.Validate(ctx, u.ID); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	// product disappeared entirely
	if err := ps.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := cs.Validate(ctx, u.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
