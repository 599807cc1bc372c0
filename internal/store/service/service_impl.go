package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/internal/store/domain"
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
	resource *resource.Service[domain.Store]
}

func New(p Params) domain.Service {
	repo := repository.ProvideStore[domain.Store](p.DB)
	return &Service{
		log:      p.Log.Named("store.service"),
		genID:    p.GenID,
		resource: resource.New(p.Log, repo, p.Authz, authz.ObjectStore, scope.KindEnterprise),
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
	storeID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.Get(ctx, storeID)
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
	store := &domain.Store{
		ID:           s.genID.Generate(),
		EnterpriseID: p.Enterprise(),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.resource.Create(ctx, store); err != nil {
		return nil, err
	}

	s.log.Info("store created",
		zap.String("store_id", store.ID.String()),
		zap.String("enterprise_id", store.EnterpriseID.String()),
	)
	resp := toResponse(store)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	storeID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.FetchScoped(ctx, storeID)
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

	if err := s.resource.Update(ctx, storeID, item); err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	storeID, err := resource.ParseID(id)
	if err != nil {
		return err
	}
	return s.resource.Delete(ctx, storeID)
}

func toResponse(st *domain.Store) domain.Response {
	return domain.Response{
		ID:           st.ID.String(),
		EnterpriseID: st.EnterpriseID.String(),
		Name:         st.Name,
		CreatedAt:    st.CreatedAt,
		UpdatedAt:    st.UpdatedAt,
	}
}
