package service

import (
	"context"

	"lavka/internal/domain"
	"lavka/internal/repository"
)

// UserService регистрация и выдача пользователей
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func validRole(r domain.UserRole) bool {
	switch r {
	case "", domain.RoleCustomer, domain.RoleAdmin, domain.RoleModerator:
		return true
	}
	return false
}

// Register пустая роль означает Customer
func (s *UserService) Register(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.Username == "" || u.Email == "" || !validRole(u.Role) {
		return nil, ErrInvalidInput
	}
	cp := domain.NewUser(u.ID, u.Username, u.Email, u.Role)
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
