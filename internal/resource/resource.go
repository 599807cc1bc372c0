// Package resource implements the scoped CRUD flow shared by the catalog
// services: authorization gate first, tenant scope filter second, then the
// repository operation. Rows excluded by the scope filter surface as
// ErrNotFound before any per-row authorization runs.
package resource

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/pkg/db/option"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"github.com/storekeep/storekeep/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both a missing row and a row outside the caller's
	// tenant scope.
	ErrNotFound = errors.New("resource not found")
	// ErrNoPrincipal means the request context carries no authenticated caller.
	ErrNoPrincipal = errors.New("no principal in context")
)

var defaultSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// Service runs scoped CRUD for one resource kind. Domain packages wrap it
// with their own request validation and stamping.
type Service[T any] struct {
	log    *zap.Logger
	repo   repository.Repository[T]
	authz  authz.Service
	object string
	kind   scope.Kind
}

func New[T any](log *zap.Logger, repo repository.Repository[T], authorizer authz.Service, object string, kind scope.Kind) *Service[T] {
	return &Service[T]{
		log:    log.Named(object + ".resource"),
		repo:   repo,
		authz:  authorizer,
		object: object,
		kind:   kind,
	}
}

// ParseID parses a path/param snowflake ID. Malformed IDs report not found
// so probing with garbage reveals nothing.
func ParseID(raw string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrNotFound
	}
	return id.Int64(), nil
}

func caller(ctx context.Context) (principal.Principal, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return principal.Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// List returns one page of rows visible to the caller, newest first.
func (s *Service[T]) List(ctx context.Context, params pagination.Params) (pagination.Page[*T], error) {
	var empty pagination.Page[*T]

	p, err := caller(ctx)
	if err != nil {
		return empty, err
	}
	if err := s.authz.Can(ctx, p.Tier(), s.object, authz.ActionViewAny); err != nil {
		return empty, err
	}

	filter := scope.ForPrincipal(p, s.kind)
	scoped := option.WithFilter(filter.Apply)

	total, err := s.repo.Count(ctx, new(T), scoped)
	if err != nil {
		return empty, err
	}
	rows, err := s.repo.Find(ctx, new(T),
		scoped,
		option.WithSortBy("created_at", "desc", defaultSortColumns),
		option.WithPagination(params),
	)
	if err != nil {
		return empty, err
	}

	return pagination.NewPage(rows, total, params), nil
}

// Get fetches one row by ID within the caller's scope.
func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	row, err := s.fetchScoped(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Can(ctx, p.Tier(), s.object, authz.ActionView); err != nil {
		return nil, err
	}
	return row, nil
}

// Create persists a row the domain service has already validated and
// stamped with the caller's tenant fields.
func (s *Service[T]) Create(ctx context.Context, row *T) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	if err := s.authz.Can(ctx, p.Tier(), s.object, authz.ActionCreate); err != nil {
		return err
	}
	return s.repo.Create(ctx, row)
}

// Update fetches the target within scope, then applies the mutated row.
// Out-of-scope targets fail as not found before the authorization check.
func (s *Service[T]) Update(ctx context.Context, id int64, row *T) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	if _, err := s.fetchScoped(ctx, p, id); err != nil {
		return err
	}
	if err := s.authz.Can(ctx, p.Tier(), s.object, authz.ActionUpdate); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, row)
}

// Delete removes the target if it is in scope and the tier permits it.
func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	if _, err := s.fetchScoped(ctx, p, id); err != nil {
		return err
	}
	if err := s.authz.Can(ctx, p.Tier(), s.object, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// FetchScoped exposes the scoped lookup to domain services that need the
// current row before mutating it.
func (s *Service[T]) FetchScoped(ctx context.Context, id int64) (*T, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.fetchScoped(ctx, p, id)
}

func (s *Service[T]) fetchScoped(ctx context.Context, p principal.Principal, id int64) (*T, error) {
	filter := scope.ForPrincipal(p, s.kind)
	row, err := s.repo.FindOne(ctx, new(T),
		option.WithFilter(func(db *gorm.DB) *gorm.DB {
			return filter.Apply(db.Where("id = ?", id))
		}),
	)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}
