package event_bus

import "github.com/shopspring/decimal"

const (
	BudgetUpdatedEvent    EventType = "budget.updated"
	MonthOpenedEvent      EventType = "budget.month_opened"
	TemplateAppliedEvent  EventType = "template.applied"
	BarebonesAppliedEvent EventType = "template.barebones_applied"
)

type BudgetUpdated struct {
	BudgetID   int
	CategoryID int
	Year       int
	Month      int
	Amount     decimal.Decimal
}

type MonthOpened struct {
	HouseholdID int
	Year        int
	Month       int
	Forced      bool
}

type TemplateApplied struct {
	HouseholdID       int
	TemplateID        int
	TemplateName      string
	CategoriesCreated int
}

type BarebonesApplied struct {
	HouseholdID int
	Year        int
	Month       int
	Zeroed      int
}
