// Package store holds one repository per resource. Each maps its table's
// columns onto a models struct and reaches PostgreSQL only through the
// database helpers.
package store

import (
	"shop-api/internal/database"
)

type Store struct {
	Users      *Users
	Products   *Products
	Categories *Categories
	Orders     *Orders
}

func New(db *database.DB) *Store {
	return &Store{
		Users:      &Users{db: db},
		Products:   &Products{db: db},
		Categories: &Categories{db: db},
		Orders:     &Orders{db: db},
	}
}
