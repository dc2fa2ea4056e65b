package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	Store(ctx context.Context, u User) (int, error)
	GetByUid(ctx context.Context, uid string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, uid string) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, u User) (int, error) {
	query := `INSERT INTO users (uid, email, display_name) VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO NOTHING RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, u.Uid, u.Email, u.DisplayName).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrEmailTaken
		}
		err := fmt.Errorf("could not store user: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, email, display_name FROM users WHERE uid = $1`
	var u User
	err := r.db.QueryRow(ctx, query, uid).Scan(&u.Id, &u.Uid, &u.Email, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		err := fmt.Errorf("could not get user by uid: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

func (r *RepositoryImpl) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT id, uid, email, display_name FROM users WHERE email = $1`
	var u User
	err := r.db.QueryRow(ctx, query, email).Scan(&u.Id, &u.Uid, &u.Email, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		err := fmt.Errorf("could not get user by email: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]User, error) {
	query := `SELECT id, uid, email, display_name FROM users ORDER BY email`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Id, &u.Uid, &u.Email, &u.DisplayName); err != nil {
			err := fmt.Errorf("could not scan user: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return users, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, uid string) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		err := fmt.Errorf("could not delete user: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}
