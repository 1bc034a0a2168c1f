package domain

import (
	"errors"
	"testing"
)

func TestValidateCart_OK(t *testing.T) {
	catalog := []Product{
		NewProduct(1, "box", dec(10), CategoryPhysical, 5, ""),
		NewProduct(2, "ebook", dec(5), CategoryDigital, 0, "url"),
	}
	c := NewCart(1)
	c.AddItem(catalog[0], 5)
	c.AddItem(catalog[1], 100)

	if err := ValidateCart(c, catalog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCart_ProductNotFound(t *testing.T) {
	catalog := []Product{NewProduct(1, "box", dec(10), CategoryPhysical, 5, "")}
	c := NewCart(1)
	c.AddItem(NewProduct(42, "ghost", dec(1), CategoryPhysical, 0, ""), 1)

	err := ValidateCart(c, catalog)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateCart_OutOfStock(t *testing.T) {
	catalog := []Product{NewProduct(1, "box", dec(10), CategoryPhysical, 5, "")}
	c := NewCart(1)
	c.AddItem(catalog[0], 6)

	err := ValidateCart(c, catalog)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
}

func TestValidateCart_StopsAtFirstFailure(t *testing.T) {
	catalog := []Product{NewProduct(2, "box", dec(10), CategoryPhysical, 1, "")}
	c := NewCart(1)
	// first item is missing from the catalog, second is out of stock
	c.AddItem(NewProduct(1, "ghost", dec(1), CategoryPhysical, 0, ""), 1)
	c.AddItem(catalog[0], 5)

	err := ValidateCart(c, catalog)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected the first failure (not found), got %v", err)
	}
}
