package transaction

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

var ErrTransactionNotFound = errors.New("transaction not found")

type Repository interface {
	Store(ctx context.Context, tx Transaction) (int, error)
	GetById(ctx context.Context, householdId int, transactionId int) (Transaction, error)
	// List returns the household's transactions in the date range, newest
	// first, optionally filtered by category.
	List(ctx context.Context, householdId int, from time.Time, to time.Time, categoryId int) ([]Transaction, error)
	Update(ctx context.Context, tx Transaction) (bool, error)
	Delete(ctx context.Context, householdId int, transactionId int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, tx Transaction) (int, error) {
	query := `INSERT INTO transaction (household_id, amount, date, description, category_id, type)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query,
		tx.HouseholdID,
		tx.Amount.String(),
		tx.Date,
		tx.Description,
		categoryParam(tx.CategoryID),
		string(tx.Type),
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, householdId int, transactionId int) (Transaction, error) {
	query := `SELECT id, household_id, amount::text, date, description, COALESCE(category_id, 0), type, created_at
			  FROM transaction WHERE id = $1 AND household_id = $2`
	tx, err := scanTransaction(r.db.QueryRow(ctx, query, transactionId, householdId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		err := fmt.Errorf("could not get transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return tx, nil
}

func (r *RepositoryImpl) List(ctx context.Context, householdId int, from time.Time, to time.Time, categoryId int) ([]Transaction, error) {
	query := `SELECT id, household_id, amount::text, date, description, COALESCE(category_id, 0), type, created_at
			  FROM transaction
			  WHERE household_id = $1 AND date >= $2 AND date <= $3
			    AND ($4 = 0 OR category_id = $4)
			  ORDER BY date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, householdId, from, to, categoryId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	query := `UPDATE transaction SET
				  amount = $1,
				  date = $2,
				  description = $3,
				  category_id = $4,
				  type = $5
			  WHERE id = $6 AND household_id = $7`
	result, err := r.db.Exec(ctx, query,
		tx.Amount.String(),
		tx.Date,
		tx.Description,
		categoryParam(tx.CategoryID),
		string(tx.Type),
		tx.ID,
		tx.HouseholdID,
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, householdId int, transactionId int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM transaction WHERE id = $1 AND household_id = $2`, transactionId, householdId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func categoryParam(categoryId int) interface{} {
	if categoryId == 0 {
		return nil
	}
	return categoryId
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var amount, transactionType string
	err := row.Scan(&tx.ID, &tx.HouseholdID, &amount, &tx.Date, &tx.Description, &tx.CategoryID, &transactionType, &tx.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("could not parse transaction amount: %w", err)
	}
	tx.Type = TransactionType(transactionType)
	return tx, nil
}
