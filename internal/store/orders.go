package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-api/internal/database"
	"shop-api/internal/models"
)

type Orders struct {
	db *database.DB
}

func scanOrder(row pgx.CollectableRow) (models.Order, error) {
	var (
		id, productID, userID uuid.UUID
		o                     models.Order
	)
	if err := row.Scan(&id, &o.PurchasedAt, &productID, &userID); err != nil {
		return models.Order{}, err
	}
	o.ID = id.String()
	o.ProductID = productID.String()
	o.UserID = userID.String()
	return o, nil
}

func (s *Orders) Get(ctx context.Context, id uuid.UUID) (models.Order, error) {
	o, err := database.QueryOne(ctx, s.db, scanOrder,
		"SELECT id, purchased_at, product_id, user_id FROM orders WHERE id = $1", id)
	if err != nil {
		return models.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

func (s *Orders) List(ctx context.Context) ([]models.Order, error) {
	return database.QueryMany(ctx, s.db, scanOrder, "SELECT id, purchased_at, product_id, user_id FROM orders")
}

// Create ignores o.PurchasedAt; the database stamps it.
func (s *Orders) Create(ctx context.Context, o models.Order) error {
	return s.db.Execute(ctx,
		"INSERT INTO orders (id, purchased_at, product_id, user_id) VALUES ($1, CURRENT_TIMESTAMP, $2, $3)",
		o.ID, o.ProductID, o.UserID)
}

func (s *Orders) Update(ctx context.Context, o models.Order) error {
	return s.db.Execute(ctx,
		"UPDATE orders SET product_id = $1, user_id = $2 WHERE id = $3",
		o.ProductID, o.UserID, o.ID)
}

func (s *Orders) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.Execute(ctx, "DELETE FROM orders WHERE id = $1", id)
}
