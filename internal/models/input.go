package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value NUMERIC(12,2) cannot hold.
var maxPrice = decimal.New(1, 10)

// ErrBadInput marks request bodies that are malformed or incomplete.
var ErrBadInput = errors.New("bad input")

// FieldError reports a required body field that is absent or unusable.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrBadInput
}

func missing(field string) error {
	return &FieldError{Field: field, Reason: "is required"}
}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &FieldError{Field: field, Reason: "must be a UUID"}
	}
	return id, nil
}

type UserInput struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Mobile *string `json:"mobile"`
}

func (in UserInput) Validate() error {
	switch {
	case in.Name == nil:
		return missing("name")
	case in.Email == nil:
		return missing("email")
	case in.Mobile == nil:
		return missing("mobile")
	}
	return nil
}

func (in UserInput) Model(id string) User {
	return User{ID: id, Name: *in.Name, Email: *in.Email, Mobile: *in.Mobile}
}

type ProductInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Type  *string          `json:"type"`
}

func (in ProductInput) Validate() error {
	switch {
	case in.Name == nil:
		return missing("name")
	case in.Price == nil:
		return missing("price")
	case in.Type == nil:
		return missing("type")
	case !in.Price.Equal(in.Price.Truncate(2)):
		return &FieldError{Field: "price", Reason: "must have at most two decimal places"}
	case in.Price.Abs().GreaterThanOrEqual(maxPrice):
		return &FieldError{Field: "price", Reason: "is out of range"}
	}
	_, err := parseUUID("type", *in.Type)
	return err
}

// Model assumes Validate has passed, so Type is a well-formed UUID.
func (in ProductInput) Model(id string) Product {
	typ, _ := uuid.Parse(*in.Type)
	return Product{ID: id, Name: *in.Name, Price: *in.Price, Type: typ.String()}
}

type CategoryInput struct {
	Category *string `json:"category"`
}

func (in CategoryInput) Validate() error {
	if in.Category == nil {
		return missing("category")
	}
	return nil
}

func (in CategoryInput) Model(id string) Category {
	return Category{ID: id, Category: *in.Category}
}

type OrderInput struct {
	ProductID *string `json:"product_id"`
	UserID    *string `json:"user_id"`
}

func (in OrderInput) Validate() error {
	switch {
	case in.ProductID == nil:
		return missing("product_id")
	case in.UserID == nil:
		return missing("user_id")
	}
	if _, err := parseUUID("product_id", *in.ProductID); err != nil {
		return err
	}
	_, err := parseUUID("user_id", *in.UserID)
	return err
}

func (in OrderInput) Model(id string) Order {
	productID, _ := uuid.Parse(*in.ProductID)
	userID, _ := uuid.Parse(*in.UserID)
	return Order{ID: id, ProductID: productID.String(), UserID: userID.String()}
}
