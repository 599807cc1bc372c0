package domain

import (
	"context"

	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

// ProductRow is the pricing snapshot taken while placing an order.
type ProductRow struct {
	ID    int64
	Price int64
}

// StockRow is the stock snapshot for one product in the ordering store.
type StockRow struct {
	ID    int64
	Stock int64
}

type Repository interface {
	// Create persists the order and its items on the given transaction.
	Create(ctx context.Context, tx *gorm.DB, order *Order, items []OrderItem) error

	// FindByID loads one order with its items, restricted by the scope
	// filter. Nil when absent or out of scope.
	FindByID(ctx context.Context, db *gorm.DB, id int64, filter scope.Filter) (*Order, error)

	// List returns one page of scoped orders, newest first, plus the total.
	List(ctx context.Context, db *gorm.DB, filter scope.Filter, params pagination.Params) ([]Order, int64, error)

	// ProductsByIDs resolves the referenced products under one enterprise,
	// keyed by product ID. Absent keys mean the product does not exist there.
	ProductsByIDs(ctx context.Context, tx *gorm.DB, enterpriseID int64, productIDs []int64) (map[int64]ProductRow, error)

	// StocksForUpdate reads the store's ledger rows for the products, locking
	// them for the rest of the transaction where the dialect supports it.
	// Absent keys mean no ledger row exists for that product in this store.
	StocksForUpdate(ctx context.Context, tx *gorm.DB, storeID int64, productIDs []int64) (map[int64]StockRow, error)
}
