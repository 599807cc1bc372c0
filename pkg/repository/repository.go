// Package repository is a generic gorm-backed store shared by the resource
// services. Tenant scoping is passed in as a query option so every call site
// states its visibility filter explicitly.
package repository

import (
	"context"

	"github.com/storekeep/storekeep/pkg/db/option"
)

type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID int64, resource any) error
	Delete(ctx context.Context, resourceID int64) error
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}
