package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go out as JSON numbers, the type clients send them in.
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type"`
}

type Category struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

type Order struct {
	ID          string    `json:"id"`
	PurchasedAt time.Time `json:"purchased_at"`
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
}

// Envelope wraps every successful response body.
type Envelope struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
