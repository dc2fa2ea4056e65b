package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, uid string) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewUserService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateUser(ctx context.Context, u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if u.DisplayName == "" {
		if at := strings.Index(u.Email, "@"); at > 0 {
			u.DisplayName = u.Email[:at]
		} else {
			u.DisplayName = u.Email
		}
	}
	u.Uid = uuid.New().String()
	id, err := s.repo.Store(ctx, u)
	if err != nil {
		return User{}, err
	}
	u.Id = id
	return u, nil
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, uid string) (bool, error) {
	return s.repo.Delete(ctx, uid)
}
