package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spendwell/spendwell/pkg/household"
	"github.com/spendwell/spendwell/pkg/user"
)

var ErrNestedSubcategory = errors.New("sub-categories cannot have children")
var ErrParentTypeMismatch = errors.New("sub-category type must match its parent")
var ErrCategoryInUse = errors.New("category has existing budgets")
var ErrNotSubcategory = errors.New("category is not a sub-category")

type Service interface {
	Get(ctx context.Context, categoryId int) (Category, error)
	Tree(ctx context.Context) ([]Node, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, c Category) (Category, error)
	Move(ctx context.Context, categoryId int, newParentId int) error
	BulkAddChildren(ctx context.Context, parentId int, names []string, isPersistent bool, paymentType PaymentType) (int, error)
	Delete(ctx context.Context, categoryId int) error
	ClearAll(ctx context.Context) (int, error)

	AddNote(ctx context.Context, categoryId int, text string) (Note, error)
	ListNotes(ctx context.Context, categoryId int) ([]Note, error)
	DeleteNote(ctx context.Context, noteId int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewCategoryService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context, categoryId int) (Category, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.GetById(ctx, householdId, categoryId)
}

func (s *ServiceImpl) Tree(ctx context.Context) ([]Node, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current household: %w", err)
	}
	categories, err := s.repo.ListByHousehold(ctx, householdId)
	if err != nil {
		return nil, err
	}
	return BuildTree(categories), nil
}

func (s *ServiceImpl) Create(ctx context.Context, c Category) (Category, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current household: %w", err)
	}
	c.HouseholdID = householdId

	if err := s.validate(ctx, c); err != nil {
		return Category{}, err
	}

	id, err := s.repo.Store(ctx, c)
	if err != nil {
		return Category{}, err
	}
	c.ID = id
	return c, nil
}

func (s *ServiceImpl) Update(ctx context.Context, c Category) (Category, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current household: %w", err)
	}
	c.HouseholdID = householdId

	if _, err := s.repo.GetById(ctx, householdId, c.ID); err != nil {
		return Category{}, err
	}
	if err := s.validate(ctx, c); err != nil {
		return Category{}, err
	}
	if c.IsChild() {
		// A category that already has children cannot be demoted under a parent.
		hasChildren, err := s.repo.HasChildren(ctx, c.ID)
		if err != nil {
			return Category{}, err
		}
		if hasChildren {
			return Category{}, ErrNestedSubcategory
		}
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return Category{}, err
	}
	if !updated {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

// Move re-attaches a sub-category to a different top-level parent.
func (s *ServiceImpl) Move(ctx context.Context, categoryId int, newParentId int) error {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current household: %w", err)
	}

	c, err := s.repo.GetById(ctx, householdId, categoryId)
	if err != nil {
		return err
	}
	if !c.IsChild() {
		return ErrNotSubcategory
	}

	newParent, err := s.repo.GetById(ctx, householdId, newParentId)
	if err != nil {
		return err
	}
	if newParent.IsChild() {
		return ErrNestedSubcategory
	}
	if newParent.Type != c.Type {
		return ErrParentTypeMismatch
	}

	moved, err := s.repo.UpdateParent(ctx, householdId, categoryId, newParentId)
	if err != nil {
		return err
	}
	if !moved {
		return ErrCategoryNotFound
	}
	return nil
}

// BulkAddChildren creates one sub-category per non-empty name under the given
// parent, inheriting the parent's type.
func (s *ServiceImpl) BulkAddChildren(ctx context.Context, parentId int, names []string, isPersistent bool, paymentType PaymentType) (int, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current household: %w", err)
	}

	parent, err := s.repo.GetById(ctx, householdId, parentId)
	if err != nil {
		return 0, err
	}
	if parent.IsChild() {
		return 0, ErrNestedSubcategory
	}
	if !paymentType.Valid() {
		return 0, fmt.Errorf("invalid payment type: %q", paymentType)
	}

	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := s.repo.Store(ctx, Category{
			HouseholdID:  householdId,
			Name:         name,
			Type:         parent.Type,
			ParentID:     parent.ID,
			IsPersistent: isPersistent,
			PaymentType:  paymentType,
			IsEssential:  true,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// Delete removes a category unless budgets still reference it.
func (s *ServiceImpl) Delete(ctx context.Context, categoryId int) error {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current household: %w", err)
	}

	if _, err := s.repo.GetById(ctx, householdId, categoryId); err != nil {
		return err
	}
	hasBudgets, err := s.repo.HasBudgets(ctx, categoryId)
	if err != nil {
		return err
	}
	if hasBudgets {
		return ErrCategoryInUse
	}

	deleted, err := s.repo.Delete(ctx, householdId, categoryId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

// ClearAll deletes every category of the household, cascading budgets and
// notes, and returns the number of categories removed.
func (s *ServiceImpl) ClearAll(ctx context.Context) (int, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.DeleteAllForHousehold(ctx, householdId)
}

func (s *ServiceImpl) AddNote(ctx context.Context, categoryId int, text string) (Note, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to get current household: %w", err)
	}
	author, err := user.CurrentUser(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Note{}, fmt.Errorf("note text is required")
	}
	if _, err := s.repo.GetById(ctx, householdId, categoryId); err != nil {
		return Note{}, err
	}

	n := Note{CategoryID: categoryId, AuthorID: author.Id, AuthorEmail: author.Email, Note: text}
	id, err := s.repo.StoreNote(ctx, n)
	if err != nil {
		return Note{}, err
	}
	n.ID = id
	return n, nil
}

func (s *ServiceImpl) ListNotes(ctx context.Context, categoryId int) ([]Note, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current household: %w", err)
	}
	if _, err := s.repo.GetById(ctx, householdId, categoryId); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, householdId, categoryId)
}

func (s *ServiceImpl) DeleteNote(ctx context.Context, noteId int) (bool, error) {
	householdId, err := household.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current household: %w", err)
	}
	return s.repo.DeleteNote(ctx, householdId, noteId)
}

// validate enforces the tree invariants: known enum values, nesting depth of
// one, and child type matching the parent type.
func (s *ServiceImpl) validate(ctx context.Context, c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("invalid category type: %q", c.Type)
	}
	if !c.PaymentType.Valid() {
		return fmt.Errorf("invalid payment type: %q", c.PaymentType)
	}
	if !c.IsChild() {
		return nil
	}
	parent, err := s.repo.GetById(ctx, c.HouseholdID, c.ParentID)
	if err != nil {
		return err
	}
	if parent.IsChild() {
		return ErrNestedSubcategory
	}
	if parent.Type != c.Type {
		return ErrParentTypeMismatch
	}
	return nil
}

// BuildTree groups a flat category list into top-level nodes with their
// children, both levels ordered by name. Children whose parent is missing
// from the list are ignored.
func BuildTree(categories []Category) []Node {
	nodesById := make(map[int]*Node)
	var order []int
	for _, c := range categories {
		if !c.IsChild() {
			nodesById[c.ID] = &Node{Category: c}
			order = append(order, c.ID)
		}
	}
	for _, c := range categories {
		if c.IsChild() {
			if node, ok := nodesById[c.ParentID]; ok {
				node.Children = append(node.Children, c)
			}
		}
	}

	tree := make([]Node, 0, len(order))
	for _, id := range order {
		node := nodesById[id]
		sort.Slice(node.Children, func(i, j int) bool {
			return node.Children[i].Name < node.Children[j].Name
		})
		tree = append(tree, *node)
	}
	sort.Slice(tree, func(i, j int) bool {
		return tree[i].Category.Name < tree[j].Category.Name
	})
	return tree
}
