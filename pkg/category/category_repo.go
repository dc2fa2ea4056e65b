package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrCategoryNotFound = errors.New("category not found")
var ErrNoteNotFound = errors.New("category note not found")

type Repository interface {
	Store(ctx context.Context, c Category) (int, error)
	GetById(ctx context.Context, householdId int, categoryId int) (Category, error)
	ListByHousehold(ctx context.Context, householdId int) ([]Category, error)
	Update(ctx context.Context, c Category) (bool, error)
	UpdateParent(ctx context.Context, householdId int, categoryId int, newParentId int) (bool, error)
	Delete(ctx context.Context, householdId int, categoryId int) (bool, error)
	DeleteAllForHousehold(ctx context.Context, householdId int) (int, error)
	HasBudgets(ctx context.Context, categoryId int) (bool, error)
	HasChildren(ctx context.Context, categoryId int) (bool, error)
	HasAny(ctx context.Context, householdId int) (bool, error)

	StoreNote(ctx context.Context, n Note) (int, error)
	ListNotes(ctx context.Context, householdId int, categoryId int) ([]Note, error)
	DeleteNote(ctx context.Context, householdId int, noteId int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewCategoryRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, c Category) (int, error) {
	query := `INSERT INTO category (
					household_id,
					name,
					type,
					parent_id,
					is_persistent,
					payment_type,
					is_essential
				) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var parentParam interface{}
	if c.ParentID != 0 {
		parentParam = c.ParentID
	}

	var id int
	err := r.db.QueryRow(ctx, query,
		c.HouseholdID,
		c.Name,
		string(c.Type),
		parentParam,
		c.IsPersistent,
		string(c.PaymentType),
		c.IsEssential,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store category: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, householdId int, categoryId int) (Category, error) {
	query := `SELECT id, household_id, name, type, COALESCE(parent_id, 0), is_persistent, payment_type, is_essential
			  FROM category WHERE id = $1 AND household_id = $2`
	c, err := scanCategory(r.db.QueryRow(ctx, query, categoryId, householdId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		err := fmt.Errorf("could not get category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return c, nil
}

// ListByHousehold returns the full category set, top-level categories first,
// ordered by name within each level. Tree assembly happens in the service.
func (r *RepositoryImpl) ListByHousehold(ctx context.Context, householdId int) ([]Category, error) {
	query := `SELECT id, household_id, name, type, COALESCE(parent_id, 0), is_persistent, payment_type, is_essential
			  FROM category WHERE household_id = $1
			  ORDER BY parent_id IS NOT NULL, name`
	rows, err := r.db.Query(ctx, query, householdId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			err := fmt.Errorf("could not scan category: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, c Category) (bool, error) {
	query := `UPDATE category SET
				  name = $1,
				  type = $2,
				  parent_id = $3,
				  is_persistent = $4,
				  payment_type = $5,
				  is_essential = $6
			  WHERE id = $7 AND household_id = $8`

	var parentParam interface{}
	if c.ParentID != 0 {
		parentParam = c.ParentID
	}

	result, err := r.db.Exec(ctx, query,
		c.Name,
		string(c.Type),
		parentParam,
		c.IsPersistent,
		string(c.PaymentType),
		c.IsEssential,
		c.ID,
		c.HouseholdID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) UpdateParent(ctx context.Context, householdId int, categoryId int, newParentId int) (bool, error) {
	query := `UPDATE category SET parent_id = $1 WHERE id = $2 AND household_id = $3`
	result, err := r.db.Exec(ctx, query, newParentId, categoryId, householdId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, householdId int, categoryId int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM category WHERE id = $1 AND household_id = $2`, categoryId, householdId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// DeleteAllForHousehold removes every category of the household. Budgets and
// notes go with them via FK cascade.
func (r *RepositoryImpl) DeleteAllForHousehold(ctx context.Context, householdId int) (int, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM category WHERE household_id = $1`, householdId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *RepositoryImpl) HasBudgets(ctx context.Context, categoryId int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM budget WHERE category_id = $1)`, categoryId).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not check category budgets: %w", err)
		log.Error(err)
		return false, err
	}
	return exists, nil
}

func (r *RepositoryImpl) HasChildren(ctx context.Context, categoryId int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM category WHERE parent_id = $1)`, categoryId).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not check category children: %w", err)
		log.Error(err)
		return false, err
	}
	return exists, nil
}

func (r *RepositoryImpl) HasAny(ctx context.Context, householdId int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM category WHERE household_id = $1)`, householdId).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not check household categories: %w", err)
		log.Error(err)
		return false, err
	}
	return exists, nil
}

func (r *RepositoryImpl) StoreNote(ctx context.Context, n Note) (int, error) {
	query := `INSERT INTO category_note (category_id, author_id, note) VALUES ($1, $2, $3) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, n.CategoryID, n.AuthorID, n.Note).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store category note: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) ListNotes(ctx context.Context, householdId int, categoryId int) ([]Note, error) {
	query := `SELECT n.id, n.category_id, n.author_id, COALESCE(u.email, ''), n.note, n.created_at
			  FROM category_note n
			  JOIN category c ON c.id = n.category_id
			  LEFT JOIN users u ON u.id = n.author_id
			  WHERE n.category_id = $1 AND c.household_id = $2
			  ORDER BY n.created_at DESC`
	rows, err := r.db.Query(ctx, query, categoryId, householdId)
	if err != nil {
		err := fmt.Errorf("could not query category notes: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.CategoryID, &n.AuthorID, &n.AuthorEmail, &n.Note, &n.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan category note: %w", err)
			log.Error(err)
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return notes, nil
}

func (r *RepositoryImpl) DeleteNote(ctx context.Context, householdId int, noteId int) (bool, error) {
	query := `DELETE FROM category_note n USING category c
			  WHERE n.category_id = c.id AND n.id = $1 AND c.household_id = $2`
	result, err := r.db.Exec(ctx, query, noteId, householdId)
	if err != nil {
		err := fmt.Errorf("could not delete category note: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	var categoryType, paymentType string
	err := row.Scan(&c.ID, &c.HouseholdID, &c.Name, &categoryType, &c.ParentID, &c.IsPersistent, &paymentType, &c.IsEssential)
	if err != nil {
		return Category{}, err
	}
	c.Type = CategoryType(categoryType)
	c.PaymentType = PaymentType(paymentType)
	return c, nil
}
