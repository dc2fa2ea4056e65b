package template

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/internal/event_bus"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
)

var ErrDefaultTemplateDelete = errors.New("the default template cannot be deleted")

type Service interface {
	List(ctx context.Context) ([]BudgetTemplate, error)
	Get(ctx context.Context, templateId int) (BudgetTemplate, error)
	Create(ctx context.Context, t BudgetTemplate) (BudgetTemplate, error)
	Update(ctx context.Context, t BudgetTemplate) (BudgetTemplate, error)
	Delete(ctx context.Context, templateId int) error
	SetDefault(ctx context.Context, templateId int) error

	AddCategory(ctx context.Context, tc TemplateCategory) (TemplateCategory, error)
	UpdateCategory(ctx context.Context, tc TemplateCategory) (TemplateCategory, error)
	DeleteCategory(ctx context.Context, templateId int, categoryId int) error

	// Apply materializes the template's categories for the current household
	// and returns how many were created.
	Apply(ctx context.Context, templateId int) (int, error)
	// ApplyDefault applies the configured default template, falling back to
	// the built-in starter set when none exists. Returns the applied
	// template's name and the number of categories created.
	ApplyDefault(ctx context.Context) (string, int, error)
	// ApplyBarebones zeroes the month's budgets of all non-essential expense
	// and savings categories, creating missing rows first. Income is left
	// alone. Returns one change entry per budget whose amount actually moved.
	ApplyBarebones(ctx context.Context, year int, month int) ([]Change, error)
}

type ServiceImpl struct {
	repo       Repository
	categories category.Service
	budgets    budget.Repository
	eventBus   *event_bus.EventBus
}

func NewTemplateService(repo Repository, categories category.Service, budgets budget.Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, categories: categories, budgets: budgets, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]BudgetTemplate, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, templateId int) (BudgetTemplate, error) {
	return s.repo.GetById(ctx, templateId)
}

func (s *ServiceImpl) Create(ctx context.Context, t BudgetTemplate) (BudgetTemplate, error) {
	if strings.TrimSpace(t.Name) == "" {
		return BudgetTemplate{}, fmt.Errorf("template name is required")
	}
	t.IsDefault = false
	id, err := s.repo.Store(ctx, t)
	if err != nil {
		return BudgetTemplate{}, err
	}
	t.ID = id
	return t, nil
}

func (s *ServiceImpl) Update(ctx context.Context, t BudgetTemplate) (BudgetTemplate, error) {
	if strings.TrimSpace(t.Name) == "" {
		return BudgetTemplate{}, fmt.Errorf("template name is required")
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return BudgetTemplate{}, err
	}
	if !updated {
		return BudgetTemplate{}, ErrTemplateNotFound
	}
	return s.repo.GetById(ctx, t.ID)
}

func (s *ServiceImpl) Delete(ctx context.Context, templateId int) error {
	t, err := s.repo.GetById(ctx, templateId)
	if err != nil {
		return err
	}
	if t.IsDefault {
		return ErrDefaultTemplateDelete
	}
	deleted, err := s.repo.Delete(ctx, templateId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *ServiceImpl) SetDefault(ctx context.Context, templateId int) error {
	return s.repo.SetDefault(ctx, templateId)
}

func (s *ServiceImpl) AddCategory(ctx context.Context, tc TemplateCategory) (TemplateCategory, error) {
	if err := s.validateCategory(ctx, tc); err != nil {
		return TemplateCategory{}, err
	}
	id, err := s.repo.StoreCategory(ctx, tc)
	if err != nil {
		return TemplateCategory{}, err
	}
	tc.ID = id
	return tc, nil
}

func (s *ServiceImpl) UpdateCategory(ctx context.Context, tc TemplateCategory) (TemplateCategory, error) {
	if err := s.validateCategory(ctx, tc); err != nil {
		return TemplateCategory{}, err
	}
	updated, err := s.repo.UpdateCategory(ctx, tc)
	if err != nil {
		return TemplateCategory{}, err
	}
	if !updated {
		return TemplateCategory{}, ErrTemplateCategoryNotFound
	}
	return tc, nil
}

func (s *ServiceImpl) DeleteCategory(ctx context.Context, templateId int, categoryId int) error {
	deleted, err := s.repo.DeleteCategory(ctx, templateId, categoryId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTemplateCategoryNotFound
	}
	return nil
}

func (s *ServiceImpl) Apply(ctx context.Context, templateId int) (int, error) {
	t, err := s.repo.GetById(ctx, templateId)
	if err != nil {
		return 0, err
	}
	return s.apply(ctx, t)
}

func (s *ServiceImpl) ApplyDefault(ctx context.Context) (string, int, error) {
	t, err := s.repo.FindDefault(ctx)
	if err != nil {
		if !errors.Is(err, ErrTemplateNotFound) {
			return "", 0, err
		}
		t = BuiltinTemplate()
	}
	created, err := s.apply(ctx, t)
	return t.Name, created, err
}

// apply materializes a template in two passes: roots first, then children
// bound to the categories just created. A child whose parent entry was not
// materialized is created as a top-level category instead of being dropped.
func (s *ServiceImpl) apply(ctx context.Context, t BudgetTemplate) (int, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current household: %w", err)
	}

	createdIds := make(map[int]int, len(t.Categories))
	created := 0
	for _, tc := range t.Categories {
		if tc.IsChild() {
			continue
		}
		c, err := s.categories.Create(ctx, materialize(tc, 0))
		if err != nil {
			return created, fmt.Errorf("could not create category %q: %w", tc.Name, err)
		}
		createdIds[tc.ID] = c.ID
		created++
	}
	for _, tc := range t.Categories {
		if !tc.IsChild() {
			continue
		}
		parentId, ok := createdIds[tc.ParentID]
		if !ok {
			log.Warnf("Template %q: parent of category %q was not created, adding it as top-level", t.Name, tc.Name)
			parentId = 0
		}
		c, err := s.categories.Create(ctx, materialize(tc, parentId))
		if err != nil {
			return created, fmt.Errorf("could not create category %q: %w", tc.Name, err)
		}
		createdIds[tc.ID] = c.ID
		created++
	}

	log.Infof("Applied template %q to household %d: %d categories created", t.Name, householdId, created)
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TemplateAppliedEvent, event_bus.TemplateApplied{
		HouseholdID:       householdId,
		TemplateID:        t.ID,
		TemplateName:      t.Name,
		CategoriesCreated: created,
	})); err != nil {
		log.Warnf("Failed to publish template applied event: %v", err)
	}
	return created, nil
}

func (s *ServiceImpl) ApplyBarebones(ctx context.Context, year int, month int) ([]Change, error) {
	if err := budget.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current household: %w", err)
	}

	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}

	startDate := budget.MonthStart(year, month)
	endDate := budget.MonthEnd(year, month)
	changes := []Change{}
	for _, node := range tree {
		all := append([]category.Category{node.Category}, node.Children...)
		for _, c := range all {
			if c.Type == category.TypeIncome {
				continue
			}

			b, err := s.budgets.GetForCategoryMonth(ctx, c.ID, startDate)
			if errors.Is(err, budget.ErrBudgetNotFound) {
				b = budget.Budget{
					CategoryID: c.ID,
					Amount:     decimal.Zero,
					StartDate:  startDate,
					EndDate:    endDate,
					IsPaid:     budget.PaidOnCreation(c),
				}
				if _, err := s.budgets.CreateIfMissing(ctx, b); err != nil {
					return changes, err
				}
			} else if err != nil {
				return changes, err
			}

			if c.IsEssential || b.Amount.IsZero() {
				continue
			}
			oldAmount := b.Amount
			b.Amount = decimal.Zero
			if _, _, err := s.budgets.Upsert(ctx, b); err != nil {
				return changes, err
			}
			changes = append(changes, Change{
				CategoryID: c.ID,
				Category:   c.Name,
				OldAmount:  oldAmount,
				NewAmount:  decimal.Zero,
				Action:     "zeroed",
			})
		}
	}

	log.Infof("Applied barebones reduction for household %d to %d-%02d: %d budgets zeroed",
		householdId, year, month, len(changes))
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BarebonesAppliedEvent, event_bus.BarebonesApplied{
		HouseholdID: householdId,
		Year:        year,
		Month:       month,
		Zeroed:      len(changes),
	})); err != nil {
		log.Warnf("Failed to publish barebones applied event: %v", err)
	}
	return changes, nil
}

func (s *ServiceImpl) validateCategory(ctx context.Context, tc TemplateCategory) error {
	if strings.TrimSpace(tc.Name) == "" {
		return fmt.Errorf("template category name is required")
	}
	if !tc.Type.Valid() {
		return fmt.Errorf("invalid category type: %q", tc.Type)
	}
	if !tc.PaymentType.Valid() {
		return fmt.Errorf("invalid payment type: %q", tc.PaymentType)
	}
	if _, err := s.repo.GetById(ctx, tc.TemplateID); err != nil {
		return err
	}
	if !tc.IsChild() {
		return nil
	}
	siblings, err := s.repo.ListCategories(ctx, tc.TemplateID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.ID != tc.ParentID {
			continue
		}
		if sibling.IsChild() {
			return category.ErrNestedSubcategory
		}
		if sibling.Type != tc.Type {
			return category.ErrParentTypeMismatch
		}
		return nil
	}
	return ErrTemplateCategoryNotFound
}

func materialize(tc TemplateCategory, parentId int) category.Category {
	return category.Category{
		Name:         tc.Name,
		Type:         tc.Type,
		ParentID:     parentId,
		IsPersistent: tc.IsPersistent,
		PaymentType:  tc.PaymentType,
		IsEssential:  tc.IsEssential,
	}
}
