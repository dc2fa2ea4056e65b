package household

// Household is the budgeting tenant: categories, budgets, and transactions
// are always scoped to exactly one household. Users can belong to several
// households; the first one is treated as primary.
type Household struct {
	Id   int
	Uid  string
	Name string
}
