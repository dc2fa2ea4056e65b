package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is an actual money movement of the household, independent of
// the planned budgets. CategoryID is 0 for uncategorized transactions and
// survives category deletion.
type Transaction struct {
	ID          int
	HouseholdID int
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  int
	Type        TransactionType
	CreatedAt   time.Time
}
