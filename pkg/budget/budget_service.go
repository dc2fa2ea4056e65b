package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/internal/event_bus"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
)

var ErrPaymentNotToggleable = errors.New("only manual payments can be toggled")

// OpenResult summarizes one month opening run.
type OpenResult struct {
	Year      int
	Month     int
	Created   int
	Refreshed int
}

type Service interface {
	// OpenMonth ensures every category of the household has a budget row for
	// the given month. Without force, existing rows stay untouched and the
	// call is idempotent. With force, amounts are recomputed but paid flags
	// are preserved.
	OpenMonth(ctx context.Context, year int, month int, force bool) (OpenResult, error)
	ListForMonth(ctx context.Context, year int, month int) ([]Budget, error)
	UpdateAmount(ctx context.Context, categoryId int, year int, month int, amount decimal.Decimal) (Budget, error)
	TogglePaid(ctx context.Context, budgetId int) (Budget, error)
}

type ServiceImpl struct {
	repo       Repository
	categories category.Service
	eventBus   *event_bus.EventBus
}

func NewBudgetService(repo Repository, categories category.Service, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, categories: categories, eventBus: eventBus}
}

func (s *ServiceImpl) OpenMonth(ctx context.Context, year int, month int, force bool) (OpenResult, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return OpenResult{}, err
	}
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return OpenResult{}, fmt.Errorf("failed to get current household: %w", err)
	}

	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return OpenResult{}, err
	}

	prevYear, prevMonth := PreviousMonth(year, month)
	previous, err := s.repo.ListForMonth(ctx, householdId, MonthStart(prevYear, prevMonth))
	if err != nil {
		return OpenResult{}, err
	}
	previousAmounts := make(map[int]decimal.Decimal, len(previous))
	for _, b := range previous {
		previousAmounts[b.CategoryID] = b.Amount
	}

	result := OpenResult{Year: year, Month: month}
	startDate := MonthStart(year, month)
	endDate := MonthEnd(year, month)
	for _, node := range tree {
		categories := append([]category.Category{node.Category}, node.Children...)
		for _, c := range categories {
			amount := decimal.Zero
			if c.IsPersistent {
				if prev, ok := previousAmounts[c.ID]; ok {
					amount = prev
				}
			}
			b := Budget{
				CategoryID: c.ID,
				Amount:     amount,
				StartDate:  startDate,
				EndDate:    endDate,
				IsPaid:     PaidOnCreation(c),
			}
			if force {
				_, created, err := s.repo.Upsert(ctx, b)
				if err != nil {
					return result, err
				}
				if created {
					result.Created++
				} else {
					result.Refreshed++
				}
			} else {
				created, err := s.repo.CreateIfMissing(ctx, b)
				if err != nil {
					return result, err
				}
				if created {
					result.Created++
				}
			}
		}
	}

	log.Infof("Opened budget month %d-%02d for household %d: %d created, %d refreshed",
		year, month, householdId, result.Created, result.Refreshed)
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.MonthOpenedEvent, event_bus.MonthOpened{
		HouseholdID: householdId,
		Year:        year,
		Month:       month,
		Forced:      force,
	})); err != nil {
		log.Warnf("Failed to publish month opened event: %v", err)
	}
	return result, nil
}

func (s *ServiceImpl) ListForMonth(ctx context.Context, year int, month int) ([]Budget, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.ListForMonth(ctx, householdId, MonthStart(year, month))
}

func (s *ServiceImpl) UpdateAmount(ctx context.Context, categoryId int, year int, month int, amount decimal.Decimal) (Budget, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return Budget{}, err
	}

	c, err := s.categories.Get(ctx, categoryId)
	if err != nil {
		return Budget{}, err
	}

	b, _, err := s.repo.Upsert(ctx, Budget{
		CategoryID: categoryId,
		Amount:     amount,
		StartDate:  MonthStart(year, month),
		EndDate:    MonthEnd(year, month),
		IsPaid:     PaidOnCreation(c),
	})
	if err != nil {
		return Budget{}, err
	}

	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetUpdatedEvent, event_bus.BudgetUpdated{
		BudgetID:   b.ID,
		CategoryID: categoryId,
		Year:       year,
		Month:      month,
		Amount:     amount,
	})); err != nil {
		log.Warnf("Failed to publish budget updated event: %v", err)
	}
	return b, nil
}

func (s *ServiceImpl) TogglePaid(ctx context.Context, budgetId int) (Budget, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current household: %w", err)
	}

	b, err := s.repo.GetByID(ctx, householdId, budgetId)
	if err != nil {
		return Budget{}, err
	}
	c, err := s.categories.Get(ctx, b.CategoryID)
	if err != nil {
		return Budget{}, err
	}
	if c.PaymentType != category.PaymentManual {
		return Budget{}, ErrPaymentNotToggleable
	}

	updated, err := s.repo.SetPaid(ctx, budgetId, !b.IsPaid)
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		return Budget{}, ErrBudgetNotFound
	}
	b.IsPaid = !b.IsPaid
	return b, nil
}

// PaidOnCreation is the paid default for a freshly created budget row. Manual
// payments start unpaid and get checked off by hand; everything else is
// settled automatically.
func PaidOnCreation(c category.Category) bool {
	return c.PaymentType != category.PaymentManual
}
