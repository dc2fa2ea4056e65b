package category

import (
	"context"
	"time"
)

// RepositoryStub is an in-memory Repository used by service tests here and in
// the budget, template, and overview packages.
type RepositoryStub struct {
	nextId     int
	nextNoteId int
	categories map[int]Category
	notes      map[int]Note
	// BudgetedCategories marks categories that have budget rows, for the
	// referential delete guard.
	BudgetedCategories map[int]bool
}

func NewStubCategoryRepo() *RepositoryStub {
	return &RepositoryStub{
		categories:         map[int]Category{},
		notes:              map[int]Note{},
		BudgetedCategories: map[int]bool{},
	}
}

func (s *RepositoryStub) Store(ctx context.Context, c Category) (int, error) {
	s.nextId++
	c.ID = s.nextId
	s.categories[c.ID] = c
	return c.ID, nil
}

func (s *RepositoryStub) GetById(ctx context.Context, householdId int, categoryId int) (Category, error) {
	if c, ok := s.categories[categoryId]; ok && c.HouseholdID == householdId {
		return c, nil
	}
	return Category{}, ErrCategoryNotFound
}

func (s *RepositoryStub) ListByHousehold(ctx context.Context, householdId int) ([]Category, error) {
	var categories []Category
	for id := 1; id <= s.nextId; id++ {
		if c, ok := s.categories[id]; ok && c.HouseholdID == householdId {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (s *RepositoryStub) Update(ctx context.Context, c Category) (bool, error) {
	if existing, ok := s.categories[c.ID]; ok && existing.HouseholdID == c.HouseholdID {
		s.categories[c.ID] = c
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) UpdateParent(ctx context.Context, householdId int, categoryId int, newParentId int) (bool, error) {
	if c, ok := s.categories[categoryId]; ok && c.HouseholdID == householdId {
		c.ParentID = newParentId
		s.categories[categoryId] = c
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, householdId int, categoryId int) (bool, error) {
	if c, ok := s.categories[categoryId]; ok && c.HouseholdID == householdId {
		delete(s.categories, categoryId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) DeleteAllForHousehold(ctx context.Context, householdId int) (int, error) {
	count := 0
	for id, c := range s.categories {
		if c.HouseholdID == householdId {
			delete(s.categories, id)
			delete(s.BudgetedCategories, id)
			count++
		}
	}
	return count, nil
}

func (s *RepositoryStub) HasBudgets(ctx context.Context, categoryId int) (bool, error) {
	return s.BudgetedCategories[categoryId], nil
}

func (s *RepositoryStub) HasChildren(ctx context.Context, categoryId int) (bool, error) {
	for _, c := range s.categories {
		if c.ParentID == categoryId {
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) HasAny(ctx context.Context, householdId int) (bool, error) {
	for _, c := range s.categories {
		if c.HouseholdID == householdId {
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) StoreNote(ctx context.Context, n Note) (int, error) {
	s.nextNoteId++
	n.ID = s.nextNoteId
	n.CreatedAt = time.Now()
	s.notes[n.ID] = n
	return n.ID, nil
}

func (s *RepositoryStub) ListNotes(ctx context.Context, householdId int, categoryId int) ([]Note, error) {
	var notes []Note
	for id := s.nextNoteId; id >= 1; id-- {
		if n, ok := s.notes[id]; ok && n.CategoryID == categoryId {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (s *RepositoryStub) DeleteNote(ctx context.Context, householdId int, noteId int) (bool, error) {
	if _, ok := s.notes[noteId]; ok {
		delete(s.notes, noteId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.categories = map[int]Category{}
	s.notes = map[int]Note{}
	s.BudgetedCategories = map[int]bool{}
	s.nextId = 0
	s.nextNoteId = 0
}
