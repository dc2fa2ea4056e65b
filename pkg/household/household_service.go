package household

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/pkg/user"
)

type Service interface {
	// EnsureForUser returns the user's primary household, creating one on
	// first access. Households are never deleted automatically.
	EnsureForUser(ctx context.Context, u user.User) (Household, error)
	Current(ctx context.Context) (Household, error)
	AddMember(ctx context.Context, householdId int, userId int) error
}

type ServiceImpl struct {
	repo Repository
}

func NewHouseholdService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) EnsureForUser(ctx context.Context, u user.User) (Household, error) {
	h, err := s.repo.FindFirstForUser(ctx, u.Id)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, ErrNoHousehold) {
		return Household{}, err
	}

	h = Household{
		Uid:  uuid.New().String(),
		Name: fmt.Sprintf("%s's Household", u.DisplayName),
	}
	created, err := s.repo.Store(ctx, h, u.Id)
	if err != nil {
		return Household{}, err
	}
	log.Infof("created household %q for user %s", created.Name, u.Uid)
	return created, nil
}

func (s *ServiceImpl) Current(ctx context.Context) (Household, error) {
	return Current(ctx)
}

func (s *ServiceImpl) AddMember(ctx context.Context, householdId int, userId int) error {
	return s.repo.AddMember(ctx, householdId, userId)
}
