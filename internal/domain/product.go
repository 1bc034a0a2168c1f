package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory тип категории товара
type ProductCategory string

const (
	CategoryPhysical     ProductCategory = "Physical"
	CategoryDigital      ProductCategory = "Digital"
	CategorySubscription ProductCategory = "Subscription"
)

// UserRole роль пользователя
type UserRole string

const (
	RoleCustomer  UserRole = "Customer"
	RoleAdmin     UserRole = "Admin"
	RoleModerator UserRole = "Moderator"
)

// Product представляет товар в каталоге
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    ProductCategory `json:"category"`
	Stock       int64           `json:"stock"`
	DownloadURL string          `json:"download_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewProduct собирает товар с дефолтами: stock имеет смысл только для Physical,
// downloadURL — только для Digital. Уникальность id и знак цены не проверяются,
// это ответственность вызывающего.
func NewProduct(id int64, name string, price decimal.Decimal, category ProductCategory, stock int64, downloadURL string) Product {
	return Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Category:    category,
		Stock:       stock,
		DownloadURL: downloadURL,
		CreatedAt:   time.Now().UTC(),
	}
}

// InStock для Digital и Subscription запас не ограничен,
// для Physical требуется stock >= quantity
func (p Product) InStock(quantity int64) bool {
	if p.Category == CategoryDigital || p.Category == CategorySubscription {
		return true
	}
	return p.Stock >= quantity
}

// User пользователь магазина
type User struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     UserRole   `json:"role"`
	IsActive bool       `json:"is_active"`
	Items    []CartItem `json:"items"`
}

// NewUser пустая роль означает Customer, пользователь активен с момента создания
func NewUser(id int64, username, email string, role UserRole) User {
	if role == "" {
		role = RoleCustomer
	}
	return User{
		ID:       id,
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
		Items:    []CartItem{},
	}
}
