package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.ListUsers).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Household
	r.HandleFunc("/api/household/current", deps.HouseholdHandler.CurrentHousehold).Methods("GET")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/category", deps.CategoryHandler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.ClearAllCategories).Methods("DELETE")
	r.HandleFunc("/api/category/note/{noteId}", deps.CategoryHandler.DeleteNote).Methods("DELETE")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.UpdateCategory).Methods("PUT")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.DeleteCategory).Methods("DELETE")
	r.HandleFunc("/api/category/{categoryId}/parent", deps.CategoryHandler.MoveCategory).Methods("PUT")
	r.HandleFunc("/api/category/{categoryId}/children", deps.CategoryHandler.BulkAddCategories).Methods("POST")
	r.HandleFunc("/api/category/{categoryId}/note", deps.CategoryHandler.ListNotes).Methods("GET")
	r.HandleFunc("/api/category/{categoryId}/note", deps.CategoryHandler.AddNote).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budget/{year:[0-9]+}/{month:[0-9]+}", deps.BudgetHandler.ListBudgets).Methods("GET")
	r.HandleFunc("/api/budget/{year:[0-9]+}/{month:[0-9]+}/open", deps.BudgetHandler.OpenMonth).Methods("POST")
	r.HandleFunc("/api/budget/{year:[0-9]+}/{month:[0-9]+}/category/{categoryId}", deps.BudgetHandler.UpdateAmount).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/paid", deps.BudgetHandler.TogglePaid).Methods("PUT")

	// Templates
	r.HandleFunc("/api/template", deps.TemplateHandler.ListTemplates).Methods("GET")
	r.HandleFunc("/api/template", deps.TemplateHandler.CreateTemplate).Methods("POST")
	r.HandleFunc("/api/template/apply-default", deps.TemplateHandler.ApplyDefaultTemplate).Methods("POST")
	r.HandleFunc("/api/template/barebones/{year:[0-9]+}/{month:[0-9]+}", deps.TemplateHandler.ApplyBarebones).Methods("POST")
	r.HandleFunc("/api/template/{templateId}", deps.TemplateHandler.GetTemplate).Methods("GET")
	r.HandleFunc("/api/template/{templateId}", deps.TemplateHandler.UpdateTemplate).Methods("PUT")
	r.HandleFunc("/api/template/{templateId}", deps.TemplateHandler.DeleteTemplate).Methods("DELETE")
	r.HandleFunc("/api/template/{templateId}/default", deps.TemplateHandler.SetDefaultTemplate).Methods("PUT")
	r.HandleFunc("/api/template/{templateId}/apply", deps.TemplateHandler.ApplyTemplate).Methods("POST")
	r.HandleFunc("/api/template/{templateId}/category", deps.TemplateHandler.AddTemplateCategory).Methods("POST")
	r.HandleFunc("/api/template/{templateId}/category/{categoryId}", deps.TemplateHandler.UpdateTemplateCategory).Methods("PUT")
	r.HandleFunc("/api/template/{templateId}/category/{categoryId}", deps.TemplateHandler.DeleteTemplateCategory).Methods("DELETE")

	// Overview
	r.HandleFunc("/api/overview/{year:[0-9]+}", deps.OverviewHandler.GetYearlyOverview).Methods("GET")
	r.HandleFunc("/api/overview/{year:[0-9]+}/{month:[0-9]+}", deps.OverviewHandler.GetMonthlyOverview).Methods("GET")
	r.HandleFunc("/api/overview/{year:[0-9]+}/{month:[0-9]+}/outstanding", deps.OverviewHandler.GetOutstandingPayments).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/transaction/{year:[0-9]+}/{month:[0-9]+}", deps.TransactionHandler.ListTransactions).Methods("GET")
	r.HandleFunc("/api/transaction/{transactionId}", deps.TransactionHandler.UpdateTransaction).Methods("PUT")
	r.HandleFunc("/api/transaction/{transactionId}", deps.TransactionHandler.DeleteTransaction).Methods("DELETE")
}
