package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-api/internal/database"
	"shop-api/internal/models"
)

type Categories struct {
	db *database.DB
}

func scanCategory(row pgx.CollectableRow) (models.Category, error) {
	var (
		id uuid.UUID
		c  models.Category
	)
	if err := row.Scan(&id, &c.Category); err != nil {
		return models.Category{}, err
	}
	c.ID = id.String()
	return c, nil
}

func (s *Categories) Get(ctx context.Context, id uuid.UUID) (models.Category, error) {
	c, err := database.QueryOne(ctx, s.db, scanCategory,
		"SELECT id, category FROM categories WHERE id = $1", id)
	if err != nil {
		return models.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	return database.QueryMany(ctx, s.db, scanCategory, "SELECT id, category FROM categories")
}

func (s *Categories) Create(ctx context.Context, c models.Category) error {
	return s.db.Execute(ctx,
		"INSERT INTO categories (id, category) VALUES ($1, $2)",
		c.ID, c.Category)
}

func (s *Categories) Update(ctx context.Context, c models.Category) error {
	return s.db.Execute(ctx,
		"UPDATE categories SET category = $1 WHERE id = $2",
		c.Category, c.ID)
}

func (s *Categories) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.Execute(ctx, "DELETE FROM categories WHERE id = $1", id)
}
