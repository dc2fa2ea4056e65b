package category

import "time"

type CategoryType string

const (
	TypeIncome  CategoryType = "INCOME"
	TypeExpense CategoryType = "EXPENSE"
	TypeSavings CategoryType = "SAVINGS"
)

func (t CategoryType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeSavings:
		return true
	}
	return false
}

// PaymentType controls the default paid state of a freshly created budget row
// and whether its paid flag may be toggled afterwards. Only Manual budgets
// are toggleable.
type PaymentType string

const (
	PaymentAuto   PaymentType = "AUTO"
	PaymentManual PaymentType = "MANUAL"
	PaymentIncome PaymentType = "INCOME"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentAuto, PaymentManual, PaymentIncome:
		return true
	}
	return false
}

// Category is one node of a household's category tree. Nesting is limited to
// a single level: ParentID == 0 marks a top-level category, and a category
// with a non-zero ParentID can never become a parent itself. The service
// layer rejects anything deeper.
type Category struct {
	ID          int
	HouseholdID int
	Name        string
	Type        CategoryType
	// ParentID is 0 for top-level categories.
	ParentID int
	// IsPersistent carries the budgeted amount over when a new month is opened.
	IsPersistent bool
	PaymentType  PaymentType
	// IsEssential exempts the category from the barebones reduction.
	IsEssential bool
}

// IsChild reports whether the category sits under a parent.
func (c Category) IsChild() bool {
	return c.ParentID != 0
}

// Node is a top-level category together with its (possibly empty) children,
// as presented by tree listings and consumed by the aggregator.
type Node struct {
	Category Category
	Children []Category
}

// HasChildren reports whether aggregation should sum children instead of
// reading the category's own budget row.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Note is a free-form remark attached to a category, independent of any month.
type Note struct {
	ID          int
	CategoryID  int
	AuthorID    int
	AuthorEmail string
	Note        string
	CreatedAt   time.Time
}
