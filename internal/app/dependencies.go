package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/internal/event_bus"
	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/category"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/spendwell/spendwell/pkg/overview"
	"github.com/spendwell/spendwell/pkg/template"
	"github.com/spendwell/spendwell/pkg/transaction"
	"github.com/spendwell/spendwell/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	HouseholdService household.Service
	HouseholdHandler *household.Handler

	CategoryService category.Service
	CategoryHandler *category.Handler

	BudgetRepo    budget.Repository
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	TemplateService template.Service
	TemplateHandler *template.Handler

	OverviewService     overview.Service
	CsvOverviewRenderer *overview.CsvOverviewRendererImpl
	OverviewHandler     *overview.Handler

	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.HouseholdService = household.NewHouseholdService(household.NewHouseholdRepo(db))
	deps.HouseholdHandler = household.NewHandler(deps.HouseholdService)

	deps.CategoryService = category.NewCategoryService(category.NewCategoryRepo(db))
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.CategoryService, deps.EventBus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.TemplateService = template.NewTemplateService(template.NewTemplateRepo(db), deps.CategoryService, deps.BudgetRepo, deps.EventBus)
	deps.TemplateHandler = template.NewHandler(deps.TemplateService)

	deps.OverviewService = overview.NewOverviewService(deps.CategoryService, deps.BudgetRepo)
	deps.CsvOverviewRenderer = overview.NewCsvOverviewRenderer()
	deps.OverviewHandler = overview.NewHandler(deps.OverviewService, deps.CsvOverviewRenderer)

	deps.TransactionService = transaction.NewTransactionService(transaction.NewTransactionRepo(db), deps.CategoryService, deps.Clock)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	registerAuditSubscribers(deps.EventBus)

	return deps
}

// registerAuditSubscribers logs every domain event the services publish.
func registerAuditSubscribers(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.MonthOpenedEvent, func(e event_bus.EventT[event_bus.MonthOpened]) error {
		log.WithFields(log.Fields{
			"household": e.Data.HouseholdID,
			"year":      e.Data.Year,
			"month":     e.Data.Month,
			"forced":    e.Data.Forced,
		}).Info("budget month opened")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.BudgetUpdatedEvent, func(e event_bus.EventT[event_bus.BudgetUpdated]) error {
		log.WithFields(log.Fields{
			"budget":   e.Data.BudgetID,
			"category": e.Data.CategoryID,
			"year":     e.Data.Year,
			"month":    e.Data.Month,
			"amount":   e.Data.Amount.String(),
		}).Info("budget amount updated")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.TemplateAppliedEvent, func(e event_bus.EventT[event_bus.TemplateApplied]) error {
		log.WithFields(log.Fields{
			"household": e.Data.HouseholdID,
			"template":  e.Data.TemplateName,
			"created":   e.Data.CategoriesCreated,
		}).Info("template applied")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.BarebonesAppliedEvent, func(e event_bus.EventT[event_bus.BarebonesApplied]) error {
		log.WithFields(log.Fields{
			"household": e.Data.HouseholdID,
			"year":      e.Data.Year,
			"month":     e.Data.Month,
			"zeroed":    e.Data.Zeroed,
		}).Info("barebones reduction applied")
		return nil
	})
}
