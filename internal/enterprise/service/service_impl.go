package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	pkgdb "github.com/storekeep/storekeep/pkg/db"
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
	resource *resource.Service[domain.Enterprise]
}

func New(p Params) domain.Service {
	repo := repository.ProvideStore[domain.Enterprise](p.DB)
	return &Service{
		log:      p.Log.Named("enterprise.service"),
		genID:    p.GenID,
		resource: resource.New(p.Log, repo, p.Authz, authz.ObjectEnterprise, scope.KindGlobal),
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
	entID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.Get(ctx, entID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation.FieldErrors{"name": "required"}
	}

	now := time.Now().UTC()
	ent := &domain.Enterprise{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resource.Create(ctx, ent); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("enterprise created", zap.String("enterprise_id", ent.ID.String()))
	resp := toResponse(ent)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	entID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.FetchScoped(ctx, entID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validation.FieldErrors{"name": "required"}
		}
		item.Name = name
		item.Slug = slug.Make(name)
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.resource.Update(ctx, entID, item); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entID, err := resource.ParseID(id)
	if err != nil {
		return err
	}
	return s.resource.Delete(ctx, entID)
}

func toResponse(e *domain.Enterprise) domain.Response {
	return domain.Response{
		ID:        e.ID.String(),
		Name:      e.Name,
		Slug:      e.Slug,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
