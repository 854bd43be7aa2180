package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-api/internal/database"
	"shop-api/internal/models"
)

type Users struct {
	db *database.DB
}

func scanUser(row pgx.CollectableRow) (models.User, error) {
	var (
		id uuid.UUID
		u  models.User
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.Mobile); err != nil {
		return models.User{}, err
	}
	u.ID = id.String()
	return u, nil
}

func (s *Users) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := database.QueryOne(ctx, s.db, scanUser,
		"SELECT id, name, email, mobile FROM users WHERE id = $1", id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	return database.QueryMany(ctx, s.db, scanUser, "SELECT id, name, email, mobile FROM users")
}

func (s *Users) Create(ctx context.Context, u models.User) error {
	return s.db.Execute(ctx,
		"INSERT INTO users (id, name, email, mobile) VALUES ($1, $2, $3, $4)",
		u.ID, u.Name, u.Email, u.Mobile)
}

func (s *Users) Update(ctx context.Context, u models.User) error {
	return s.db.Execute(ctx,
		"UPDATE users SET name = $1, email = $2, mobile = $3 WHERE id = $4",
		u.Name, u.Email, u.Mobile, u.ID)
}

func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.Execute(ctx, "DELETE FROM users WHERE id = $1", id)
}
