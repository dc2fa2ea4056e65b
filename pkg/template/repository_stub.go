package template

import "context"

type RepositoryStub struct {
	nextId         int
	nextCategoryId int
	templates      map[int]BudgetTemplate
	categories     map[int]TemplateCategory
}

func NewStubTemplateRepo() *RepositoryStub {
	return &RepositoryStub{
		templates:  map[int]BudgetTemplate{},
		categories: map[int]TemplateCategory{},
	}
}

func (s *RepositoryStub) Store(ctx context.Context, t BudgetTemplate) (int, error) {
	s.nextId++
	t.ID = s.nextId
	t.Categories = nil
	s.templates[t.ID] = t
	return t.ID, nil
}

func (s *RepositoryStub) GetById(ctx context.Context, templateId int) (BudgetTemplate, error) {
	t, ok := s.templates[templateId]
	if !ok {
		return BudgetTemplate{}, ErrTemplateNotFound
	}
	t.Categories, _ = s.ListCategories(ctx, templateId)
	return t, nil
}

func (s *RepositoryStub) List(ctx context.Context) ([]BudgetTemplate, error) {
	var templates []BudgetTemplate
	for id := 1; id <= s.nextId; id++ {
		if t, ok := s.templates[id]; ok {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

func (s *RepositoryStub) Update(ctx context.Context, t BudgetTemplate) (bool, error) {
	existing, ok := s.templates[t.ID]
	if !ok {
		return false, nil
	}
	existing.Name = t.Name
	existing.Description = t.Description
	existing.IsActive = t.IsActive
	s.templates[t.ID] = existing
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, templateId int) (bool, error) {
	if _, ok := s.templates[templateId]; !ok {
		return false, nil
	}
	delete(s.templates, templateId)
	for id, tc := range s.categories {
		if tc.TemplateID == templateId {
			delete(s.categories, id)
		}
	}
	return true, nil
}

func (s *RepositoryStub) FindDefault(ctx context.Context) (BudgetTemplate, error) {
	for id := 1; id <= s.nextId; id++ {
		if t, ok := s.templates[id]; ok && t.IsDefault && t.IsActive {
			return s.GetById(ctx, id)
		}
	}
	return BudgetTemplate{}, ErrTemplateNotFound
}

func (s *RepositoryStub) SetDefault(ctx context.Context, templateId int) error {
	target, ok := s.templates[templateId]
	if !ok {
		return ErrTemplateNotFound
	}
	for id, t := range s.templates {
		t.IsDefault = false
		s.templates[id] = t
	}
	target.IsDefault = true
	target.IsActive = true
	s.templates[templateId] = target
	return nil
}

func (s *RepositoryStub) StoreCategory(ctx context.Context, tc TemplateCategory) (int, error) {
	s.nextCategoryId++
	tc.ID = s.nextCategoryId
	s.categories[tc.ID] = tc
	return tc.ID, nil
}

func (s *RepositoryStub) UpdateCategory(ctx context.Context, tc TemplateCategory) (bool, error) {
	if existing, ok := s.categories[tc.ID]; ok && existing.TemplateID == tc.TemplateID {
		s.categories[tc.ID] = tc
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) DeleteCategory(ctx context.Context, templateId int, categoryId int) (bool, error) {
	if tc, ok := s.categories[categoryId]; ok && tc.TemplateID == templateId {
		delete(s.categories, categoryId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) ListCategories(ctx context.Context, templateId int) ([]TemplateCategory, error) {
	var categories []TemplateCategory
	for id := 1; id <= s.nextCategoryId; id++ {
		if tc, ok := s.categories[id]; ok && tc.TemplateID == templateId {
			categories = append(categories, tc)
		}
	}
	return categories, nil
}

func (s *RepositoryStub) Cleanup() {
	s.templates = map[int]BudgetTemplate{}
	s.categories = map[int]TemplateCategory{}
	s.nextId = 0
	s.nextCategoryId = 0
}
