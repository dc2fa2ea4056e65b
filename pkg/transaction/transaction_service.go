package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
)

type Service interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Get(ctx context.Context, transactionId int) (Transaction, error)
	// ListForMonth returns the month's transactions, optionally restricted to
	// one category (0 for all).
	ListForMonth(ctx context.Context, year int, month int, categoryId int) ([]Transaction, error)
	Update(ctx context.Context, tx Transaction) (Transaction, error)
	Delete(ctx context.Context, transactionId int) error
}

type ServiceImpl struct {
	repo       Repository
	categories category.Service
	clock      utils.Clock
}

func NewTransactionService(repo Repository, categories category.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, categories: categories, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current household: %w", err)
	}
	tx.HouseholdID = householdId
	if tx.Date.IsZero() {
		now := s.clock.Now().UTC()
		tx.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	if err := s.validate(ctx, tx); err != nil {
		return Transaction{}, err
	}

	id, err := s.repo.Store(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = id
	return tx, nil
}

func (s *ServiceImpl) Get(ctx context.Context, transactionId int) (Transaction, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.GetById(ctx, householdId, transactionId)
}

func (s *ServiceImpl) ListForMonth(ctx context.Context, year int, month int, categoryId int) ([]Transaction, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.List(ctx, householdId, budget.MonthStart(year, month), budget.MonthEnd(year, month), categoryId)
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (Transaction, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current household: %w", err)
	}
	tx.HouseholdID = householdId

	if _, err := s.repo.GetById(ctx, householdId, tx.ID); err != nil {
		return Transaction{}, err
	}
	if err := s.validate(ctx, tx); err != nil {
		return Transaction{}, err
	}

	updated, err := s.repo.Update(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}
	if !updated {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, transactionId int) error {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current household: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, householdId, transactionId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *ServiceImpl) validate(ctx context.Context, tx Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("invalid transaction type: %q", tx.Type)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	if strings.TrimSpace(tx.Description) == "" && tx.CategoryID == 0 {
		return fmt.Errorf("transaction needs a description or a category")
	}
	if tx.CategoryID != 0 {
		if _, err := s.categories.Get(ctx, tx.CategoryID); err != nil {
			return err
		}
	}
	return nil
}
