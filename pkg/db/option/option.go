// Package option provides composable query modifiers for gorm statements.
package option

import (
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithFilter applies an arbitrary predicate builder, such as a tenant scope.
func WithFilter(apply func(*gorm.DB) *gorm.DB) QueryOption {
	return queryOptionFunc(apply)
}

// WithPagination applies limit/offset from normalized paging params.
func WithPagination(params pagination.Params) QueryOption {
	n := params.Normalize()
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Limit(n.PerPage).Offset(params.Offset())
	})
}

// WithSortBy orders by an allow-listed column; invalid input falls back to
// created_at ascending.
func WithSortBy(column, direction string, allowed map[string]bool) QueryOption {
	if !allowed[column] {
		column = "created_at"
	}
	if direction != "desc" {
		direction = "asc"
	}
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " " + direction)
	})
}
