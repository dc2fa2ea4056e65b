package template

import (
	"github.com/shopspring/decimal"
	"github.com/spendwell/spendwell/pkg/category"
)

// BudgetTemplate is a reusable category layout. Templates are shared across
// households; applying one materializes its categories for a single household.
type BudgetTemplate struct {
	ID          int
	Name        string
	Description string
	IsDefault   bool
	IsActive    bool
	Categories  []TemplateCategory
}

// TemplateCategory is one blueprint entry of a template. ParentID references
// another TemplateCategory of the same template, 0 for root entries.
type TemplateCategory struct {
	ID           int
	TemplateID   int
	Name         string
	Type         category.CategoryType
	ParentID     int
	IsPersistent bool
	PaymentType  category.PaymentType
	IsEssential  bool
	DisplayOrder int
}

func (tc TemplateCategory) IsChild() bool {
	return tc.ParentID != 0
}

// Change records one budget row modified by the barebones reduction.
type Change struct {
	CategoryID int
	Category   string
	OldAmount  decimal.Decimal
	NewAmount  decimal.Decimal
	Action     string
}
