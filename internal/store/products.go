package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-api/internal/database"
	"shop-api/internal/models"
)

type Products struct {
	db *database.DB
}

func scanProduct(row pgx.CollectableRow) (models.Product, error) {
	var (
		id, typ uuid.UUID
		p       models.Product
	)
	if err := row.Scan(&id, &p.Name, &p.Price, &typ); err != nil {
		return models.Product{}, err
	}
	p.ID = id.String()
	p.Type = typ.String()
	return p, nil
}

func (s *Products) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := database.QueryOne(ctx, s.db, scanProduct,
		"SELECT id, name, price, type FROM products WHERE id = $1", id)
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	return database.QueryMany(ctx, s.db, scanProduct, "SELECT id, name, price, type FROM products")
}

func (s *Products) Create(ctx context.Context, p models.Product) error {
	return s.db.Execute(ctx,
		"INSERT INTO products (id, name, price, type) VALUES ($1, $2, $3, $4)",
		p.ID, p.Name, p.Price, p.Type)
}

func (s *Products) Update(ctx context.Context, p models.Product) error {
	return s.db.Execute(ctx,
		"UPDATE products SET name = $1, price = $2, type = $3 WHERE id = $4",
		p.Name, p.Price, p.Type, p.ID)
}

func (s *Products) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.Execute(ctx, "DELETE FROM products WHERE id = $1", id)
}
