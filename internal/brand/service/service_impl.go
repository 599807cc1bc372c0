package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/brand/domain"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"github.com/storekeep/storekeep/pkg/repository"
	"github.com/storekeep/storekeep/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Authz authz.Service
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	resource *resource.Service[domain.Brand]
}

func New(p Params) domain.Service {
	repo := repository.ProvideStore[domain.Brand](p.DB)
	return &Service{
		log:      p.Log.Named("brand.service"),
		genID:    p.GenID,
		resource: resource.New(p.Log, repo, p.Authz, authz.ObjectBrand, scope.KindEnterprise),
	}
}

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[domain.Response], error) {
	page, err := s.resource.List(ctx, params)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}
	return pagination.MapPage(page, toResponse), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	brandID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.Get(ctx, brandID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoPrincipal
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation.FieldErrors{"name": "required"}
	}

	now := time.Now().UTC()
	brand := &domain.Brand{
		ID:           s.genID.Generate(),
		EnterpriseID: p.Enterprise(),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.resource.Create(ctx, brand); err != nil {
		return nil, err
	}

	resp := toResponse(brand)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	brandID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.FetchScoped(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validation.FieldErrors{"name": "required"}
		}
		item.Name = name
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.resource.Update(ctx, brandID, item); err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	brandID, err := resource.ParseID(id)
	if err != nil {
		return err
	}
	return s.resource.Delete(ctx, brandID)
}

func toResponse(b *domain.Brand) domain.Response {
	return domain.Response{
		ID:           b.ID.String(),
		EnterpriseID: b.EnterpriseID.String(),
		Name:         b.Name,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
