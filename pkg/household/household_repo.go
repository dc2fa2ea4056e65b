package household

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, h Household, memberUserId int) (Household, error)
	FindFirstForUser(ctx context.Context, userId int) (Household, error)
	GetById(ctx context.Context, householdId int) (Household, error)
	AddMember(ctx context.Context, householdId int, userId int) error
	ListAll(ctx context.Context) ([]Household, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewHouseholdRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// Store creates the household and registers its first member in one transaction.
func (r *RepositoryImpl) Store(ctx context.Context, h Household, memberUserId int) (Household, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Household{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO household (uid, name) VALUES ($1, $2) RETURNING id`
	err = tx.QueryRow(ctx, query, h.Uid, h.Name).Scan(&h.Id)
	if err != nil {
		err := fmt.Errorf("could not store household: %w", err)
		log.Error(err)
		return Household{}, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO household_member (household_id, user_id) VALUES ($1, $2)`, h.Id, memberUserId)
	if err != nil {
		err := fmt.Errorf("could not add household member: %w", err)
		log.Error(err)
		return Household{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Household{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return h, nil
}

func (r *RepositoryImpl) FindFirstForUser(ctx context.Context, userId int) (Household, error) {
	query := `SELECT h.id, h.uid, h.name FROM household h
			  JOIN household_member m ON m.household_id = h.id
			  WHERE m.user_id = $1 ORDER BY h.id LIMIT 1`
	var h Household
	err := r.db.QueryRow(ctx, query, userId).Scan(&h.Id, &h.Uid, &h.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Household{}, ErrNoHousehold
		}
		err := fmt.Errorf("could not find household for user: %w", err)
		log.Error(err)
		return Household{}, err
	}
	return h, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, householdId int) (Household, error) {
	var h Household
	err := r.db.QueryRow(ctx, `SELECT id, uid, name FROM household WHERE id = $1`, householdId).
		Scan(&h.Id, &h.Uid, &h.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Household{}, ErrNoHousehold
		}
		err := fmt.Errorf("could not get household: %w", err)
		log.Error(err)
		return Household{}, err
	}
	return h, nil
}

func (r *RepositoryImpl) AddMember(ctx context.Context, householdId int, userId int) error {
	query := `INSERT INTO household_member (household_id, user_id) VALUES ($1, $2)
			  ON CONFLICT (household_id, user_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, householdId, userId)
	if err != nil {
		err := fmt.Errorf("could not add household member: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListAll(ctx context.Context) ([]Household, error) {
	rows, err := r.db.Query(ctx, `SELECT id, uid, name FROM household ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not query households: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var households []Household
	for rows.Next() {
		var h Household
		if err := rows.Scan(&h.Id, &h.Uid, &h.Name); err != nil {
			err := fmt.Errorf("could not scan household: %w", err)
			log.Error(err)
			return nil, err
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return households, nil
}
