package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Role(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT role FROM catalog.users WHERE user_id = $1",
		userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up role for user %s: %w", userID, err)
	}
	return role, nil
}
