package domain

import (
	"context"

	"gorm.io/gorm"
)

// Ledger is the stock ledger's storage contract. Callers pass the handle so
// order placement can run every call on its own transaction.
type Ledger interface {
	// Get returns the ledger row for (storeID, productID), or nil when absent.
	Get(ctx context.Context, db *gorm.DB, storeID, productID int64) (*StoreStock, error)

	// FindByID returns the row by primary key, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*StoreStock, error)

	// Upsert sets the stock to an absolute value, creating the row when no
	// (store_id, product_id) row exists yet.
	Upsert(ctx context.Context, db *gorm.DB, row *StoreStock) error

	// SetRow overwrites the product and stock of an existing row. A product
	// collision with another (store_id, product_id) row surfaces as the
	// dialect's duplicate-key error.
	SetRow(ctx context.Context, db *gorm.DB, id int64, productID int64, stock int64) error

	// ConditionalDecrement atomically subtracts amount if the current stock
	// covers it. It reports false, with no mutation, when stock < amount or
	// the row is absent.
	ConditionalDecrement(ctx context.Context, db *gorm.DB, storeID, productID, amount int64) (bool, error)
}
