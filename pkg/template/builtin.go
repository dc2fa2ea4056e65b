package template

import "github.com/spendwell/spendwell/pkg/category"

// BuiltinTemplateName labels the starter set applied when no default template
// is configured.
const BuiltinTemplateName = "Base Starter"

// builtinIDs give parent references within the built-in set. They never touch
// the database.
const (
	builtinHousing = iota + 1
	builtinUtilities
	builtinTransport
	builtinHealthcare
	builtinDebt
	builtinLifestyle
)

// BuiltinTemplate returns the hardwired starter layout used as a fallback:
// 33 categories covering income, common expense groups, and savings. Every
// entry is essential so a barebones reduction leaves a fresh household alone.
func BuiltinTemplate() BudgetTemplate {
	income := category.TypeIncome
	expense := category.TypeExpense
	savings := category.TypeSavings

	categories := []TemplateCategory{
		{Name: "Salary", Type: income, IsPersistent: true, PaymentType: category.PaymentIncome},
		{Name: "Bonus", Type: income, PaymentType: category.PaymentIncome},
		{Name: "Freelance / Side Hustle", Type: income, PaymentType: category.PaymentIncome},
		{Name: "Investment Income", Type: income, PaymentType: category.PaymentIncome},

		{ID: builtinHousing, Name: "Housing", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Rent / Bond", Type: expense, ParentID: builtinHousing, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Rates & Taxes", Type: expense, ParentID: builtinHousing, IsPersistent: true, PaymentType: category.PaymentAuto},
		{Name: "Home Insurance", Type: expense, ParentID: builtinHousing, IsPersistent: true, PaymentType: category.PaymentAuto},

		{ID: builtinUtilities, Name: "Utilities", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Electricity", Type: expense, ParentID: builtinUtilities, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Water", Type: expense, ParentID: builtinUtilities, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Internet", Type: expense, ParentID: builtinUtilities, IsPersistent: true, PaymentType: category.PaymentAuto},
		{Name: "Mobile", Type: expense, ParentID: builtinUtilities, IsPersistent: true, PaymentType: category.PaymentAuto},

		{ID: builtinTransport, Name: "Transport", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Fuel", Type: expense, ParentID: builtinTransport, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Public Transport", Type: expense, ParentID: builtinTransport, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Car Insurance", Type: expense, ParentID: builtinTransport, IsPersistent: true, PaymentType: category.PaymentAuto},

		{Name: "Groceries", Type: expense, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Eating Out", Type: expense, PaymentType: category.PaymentManual},

		{ID: builtinHealthcare, Name: "Healthcare", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Medical Aid", Type: expense, ParentID: builtinHealthcare, IsPersistent: true, PaymentType: category.PaymentAuto},
		{Name: "Medication", Type: expense, ParentID: builtinHealthcare, PaymentType: category.PaymentManual},

		{ID: builtinDebt, Name: "Debt", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Credit Card", Type: expense, ParentID: builtinDebt, IsPersistent: true, PaymentType: category.PaymentAuto},
		{Name: "Personal Loan", Type: expense, ParentID: builtinDebt, IsPersistent: true, PaymentType: category.PaymentAuto},

		{ID: builtinLifestyle, Name: "Lifestyle", Type: expense, PaymentType: category.PaymentManual},
		{Name: "Entertainment", Type: expense, ParentID: builtinLifestyle, PaymentType: category.PaymentManual},
		{Name: "Subscriptions", Type: expense, ParentID: builtinLifestyle, IsPersistent: true, PaymentType: category.PaymentAuto},

		{Name: "Miscellaneous", Type: expense, PaymentType: category.PaymentManual},

		{Name: "Emergency Fund", Type: savings, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Retirement / Pension", Type: savings, IsPersistent: true, PaymentType: category.PaymentAuto},
		{Name: "Investments", Type: savings, IsPersistent: true, PaymentType: category.PaymentManual},
		{Name: "Short-term Goals", Type: savings, PaymentType: category.PaymentManual},
	}

	for i := range categories {
		if categories[i].ID == 0 {
			categories[i].ID = 100 + i
		}
		categories[i].IsEssential = true
		categories[i].DisplayOrder = i
	}

	return BudgetTemplate{
		Name:       BuiltinTemplateName,
		IsActive:   true,
		Categories: categories,
	}
}
