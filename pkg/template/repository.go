package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/pkg/category"
)

var ErrTemplateNotFound = errors.New("budget template not found")
var ErrTemplateCategoryNotFound = errors.New("template category not found")

type Repository interface {
	Store(ctx context.Context, t BudgetTemplate) (int, error)
	GetById(ctx context.Context, templateId int) (BudgetTemplate, error)
	List(ctx context.Context) ([]BudgetTemplate, error)
	Update(ctx context.Context, t BudgetTemplate) (bool, error)
	Delete(ctx context.Context, templateId int) (bool, error)
	// FindDefault returns the active default template with its categories, or
	// ErrTemplateNotFound when none is configured.
	FindDefault(ctx context.Context) (BudgetTemplate, error)
	// SetDefault marks one template as the default and clears the flag on all
	// others in a single transaction.
	SetDefault(ctx context.Context, templateId int) error

	StoreCategory(ctx context.Context, tc TemplateCategory) (int, error)
	UpdateCategory(ctx context.Context, tc TemplateCategory) (bool, error)
	DeleteCategory(ctx context.Context, templateId int, categoryId int) (bool, error)
	ListCategories(ctx context.Context, templateId int) ([]TemplateCategory, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewTemplateRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, t BudgetTemplate) (int, error) {
	query := `INSERT INTO budget_template (name, description, is_default, is_active)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, t.Name, t.Description, t.IsDefault, t.IsActive).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store budget template: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, templateId int) (BudgetTemplate, error) {
	query := `SELECT id, name, description, is_default, is_active FROM budget_template WHERE id = $1`
	t, err := scanTemplate(r.db.QueryRow(ctx, query, templateId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetTemplate{}, ErrTemplateNotFound
		}
		err := fmt.Errorf("could not get budget template: %w", err)
		log.Error(err)
		return BudgetTemplate{}, err
	}
	t.Categories, err = r.ListCategories(ctx, t.ID)
	if err != nil {
		return BudgetTemplate{}, err
	}
	return t, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]BudgetTemplate, error) {
	query := `SELECT id, name, description, is_default, is_active FROM budget_template ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query budget templates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var templates []BudgetTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			err := fmt.Errorf("could not scan budget template: %w", err)
			log.Error(err)
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return templates, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, t BudgetTemplate) (bool, error) {
	query := `UPDATE budget_template SET name = $1, description = $2, is_active = $3 WHERE id = $4`
	result, err := r.db.Exec(ctx, query, t.Name, t.Description, t.IsActive, t.ID)
	if err != nil {
		err := fmt.Errorf("could not update budget template: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, templateId int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM budget_template WHERE id = $1`, templateId)
	if err != nil {
		err := fmt.Errorf("could not delete budget template: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) FindDefault(ctx context.Context) (BudgetTemplate, error) {
	query := `SELECT id, name, description, is_default, is_active
			  FROM budget_template WHERE is_default AND is_active LIMIT 1`
	t, err := scanTemplate(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetTemplate{}, ErrTemplateNotFound
		}
		err := fmt.Errorf("could not get default budget template: %w", err)
		log.Error(err)
		return BudgetTemplate{}, err
	}
	t.Categories, err = r.ListCategories(ctx, t.ID)
	if err != nil {
		return BudgetTemplate{}, err
	}
	return t, nil
}

func (r *RepositoryImpl) SetDefault(ctx context.Context, templateId int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE budget_template SET is_default = FALSE WHERE is_default`); err != nil {
		err := fmt.Errorf("could not clear default templates: %w", err)
		log.Error(err)
		return err
	}
	result, err := tx.Exec(ctx, `UPDATE budget_template SET is_default = TRUE, is_active = TRUE WHERE id = $1`, templateId)
	if err != nil {
		err := fmt.Errorf("could not set default template: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() != 1 {
		return ErrTemplateNotFound
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) StoreCategory(ctx context.Context, tc TemplateCategory) (int, error) {
	query := `INSERT INTO template_category (
					template_id, name, type, parent_id, is_persistent, payment_type, is_essential, display_order
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var parentParam interface{}
	if tc.ParentID != 0 {
		parentParam = tc.ParentID
	}

	var id int
	err := r.db.QueryRow(ctx, query,
		tc.TemplateID,
		tc.Name,
		string(tc.Type),
		parentParam,
		tc.IsPersistent,
		string(tc.PaymentType),
		tc.IsEssential,
		tc.DisplayOrder,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store template category: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateCategory(ctx context.Context, tc TemplateCategory) (bool, error) {
	query := `UPDATE template_category SET
				  name = $1,
				  type = $2,
				  parent_id = $3,
				  is_persistent = $4,
				  payment_type = $5,
				  is_essential = $6,
				  display_order = $7
			  WHERE id = $8 AND template_id = $9`

	var parentParam interface{}
	if tc.ParentID != 0 {
		parentParam = tc.ParentID
	}

	result, err := r.db.Exec(ctx, query,
		tc.Name,
		string(tc.Type),
		parentParam,
		tc.IsPersistent,
		string(tc.PaymentType),
		tc.IsEssential,
		tc.DisplayOrder,
		tc.ID,
		tc.TemplateID,
	)
	if err != nil {
		err := fmt.Errorf("could not update template category: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) DeleteCategory(ctx context.Context, templateId int, categoryId int) (bool, error) {
	query := `DELETE FROM template_category WHERE id = $1 AND template_id = $2`
	result, err := r.db.Exec(ctx, query, categoryId, templateId)
	if err != nil {
		err := fmt.Errorf("could not delete template category: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ListCategories(ctx context.Context, templateId int) ([]TemplateCategory, error) {
	query := `SELECT id, template_id, name, type, COALESCE(parent_id, 0), is_persistent, payment_type, is_essential, display_order
			  FROM template_category WHERE template_id = $1
			  ORDER BY display_order, name`
	rows, err := r.db.Query(ctx, query, templateId)
	if err != nil {
		err := fmt.Errorf("could not query template categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []TemplateCategory
	for rows.Next() {
		var tc TemplateCategory
		var categoryType, paymentType string
		if err := rows.Scan(&tc.ID, &tc.TemplateID, &tc.Name, &categoryType, &tc.ParentID,
			&tc.IsPersistent, &paymentType, &tc.IsEssential, &tc.DisplayOrder); err != nil {
			err := fmt.Errorf("could not scan template category: %w", err)
			log.Error(err)
			return nil, err
		}
		tc.Type = category.CategoryType(categoryType)
		tc.PaymentType = category.PaymentType(paymentType)
		categories = append(categories, tc)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func scanTemplate(row pgx.Row) (BudgetTemplate, error) {
	var t BudgetTemplate
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.IsDefault, &t.IsActive)
	if err != nil {
		return BudgetTemplate{}, err
	}
	return t, nil
}
