package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget not found")

type Repository interface {
	// CreateIfMissing inserts the budget row unless one already exists for the
	// category and start date. Reports whether a row was created.
	CreateIfMissing(ctx context.Context, b Budget) (bool, error)
	// Upsert inserts the budget row or, when it already exists, updates only
	// the amount. IsPaid and EndDate are applied on creation only. Returns the
	// stored row and whether it was freshly created.
	Upsert(ctx context.Context, b Budget) (Budget, bool, error)
	GetByID(ctx context.Context, householdId int, budgetId int) (Budget, error)
	GetForCategoryMonth(ctx context.Context, categoryId int, startDate time.Time) (Budget, error)
	ListForMonth(ctx context.Context, householdId int, startDate time.Time) ([]Budget, error)
	ListForYear(ctx context.Context, householdId int, year int) ([]Budget, error)
	SetPaid(ctx context.Context, budgetId int, isPaid bool) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateIfMissing(ctx context.Context, b Budget) (bool, error) {
	query := `INSERT INTO budget (category_id, amount, start_date, end_date, is_paid)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (category_id, start_date) DO NOTHING`
	result, err := r.db.Exec(ctx, query,
		b.CategoryID,
		b.Amount.String(),
		b.StartDate,
		b.EndDate,
		b.IsPaid,
	)
	if err != nil {
		err := fmt.Errorf("could not store budget: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, b Budget) (Budget, bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	query := `INSERT INTO budget (category_id, amount, start_date, end_date, is_paid)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (category_id, start_date) DO UPDATE SET amount = EXCLUDED.amount
			  RETURNING id, amount::text, end_date, is_paid, (xmax = 0)`
	var created bool
	var amount string
	err := r.db.QueryRow(ctx, query,
		b.CategoryID,
		b.Amount.String(),
		b.StartDate,
		b.EndDate,
		b.IsPaid,
	).Scan(&b.ID, &amount, &b.EndDate, &b.IsPaid, &created)
	if err != nil {
		err := fmt.Errorf("could not upsert budget: %w", err)
		log.Error(err)
		return Budget{}, false, err
	}
	b.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Budget{}, false, fmt.Errorf("could not parse budget amount: %w", err)
	}
	return b, created, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, householdId int, budgetId int) (Budget, error) {
	query := `SELECT b.id, b.category_id, b.amount::text, b.start_date, b.end_date, b.is_paid
			  FROM budget b
			  JOIN category c ON c.id = b.category_id
			  WHERE b.id = $1 AND c.household_id = $2`
	b, err := scanBudget(r.db.QueryRow(ctx, query, budgetId, householdId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ErrBudgetNotFound
		}
		err := fmt.Errorf("could not get budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return b, nil
}

func (r *RepositoryImpl) GetForCategoryMonth(ctx context.Context, categoryId int, startDate time.Time) (Budget, error) {
	query := `SELECT id, category_id, amount::text, start_date, end_date, is_paid
			  FROM budget WHERE category_id = $1 AND start_date = $2`
	b, err := scanBudget(r.db.QueryRow(ctx, query, categoryId, startDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ErrBudgetNotFound
		}
		err := fmt.Errorf("could not get budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return b, nil
}

func (r *RepositoryImpl) ListForMonth(ctx context.Context, householdId int, startDate time.Time) ([]Budget, error) {
	query := `SELECT b.id, b.category_id, b.amount::text, b.start_date, b.end_date, b.is_paid
			  FROM budget b
			  JOIN category c ON c.id = b.category_id
			  WHERE c.household_id = $1 AND b.start_date = $2`
	return r.list(ctx, query, householdId, startDate)
}

func (r *RepositoryImpl) ListForYear(ctx context.Context, householdId int, year int) ([]Budget, error) {
	query := `SELECT b.id, b.category_id, b.amount::text, b.start_date, b.end_date, b.is_paid
			  FROM budget b
			  JOIN category c ON c.id = b.category_id
			  WHERE c.household_id = $1 AND b.start_date >= $2 AND b.start_date < $3
			  ORDER BY b.start_date`
	return r.list(ctx, query, householdId, MonthStart(year, 1), MonthStart(year+1, 1))
}

func (r *RepositoryImpl) SetPaid(ctx context.Context, budgetId int, isPaid bool) (bool, error) {
	result, err := r.db.Exec(ctx, `UPDATE budget SET is_paid = $1 WHERE id = $2`, isPaid, budgetId)
	if err != nil {
		err := fmt.Errorf("could not update budget paid flag: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) list(ctx context.Context, query string, args ...any) ([]Budget, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			err := fmt.Errorf("could not scan budget: %w", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	var amount string
	if err := row.Scan(&b.ID, &b.CategoryID, &amount, &b.StartDate, &b.EndDate, &b.IsPaid); err != nil {
		return Budget{}, err
	}
	var err error
	b.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Budget{}, fmt.Errorf("could not parse budget amount: %w", err)
	}
	return b, nil
}
