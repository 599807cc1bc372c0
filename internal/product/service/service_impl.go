package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/product/domain"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"github.com/storekeep/storekeep/pkg/repository"
	"github.com/storekeep/storekeep/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	resource *resource.Service[domain.Product]
}

func New(p Params) domain.Service {
	repo := repository.ProvideStore[domain.Product](p.DB)
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("product.service"),
		genID:    p.GenID,
		resource: resource.New(p.Log, repo, p.Authz, authz.ObjectProduct, scope.KindEnterprise),
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
	productID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.Get(ctx, productID)
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

	fieldErrs := validation.FieldErrors{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		fieldErrs.Add("name", "required")
	}

	var price int64
	if req.Price == nil {
		fieldErrs.Add("price", "required")
	} else if *req.Price < 0 {
		fieldErrs.Add("price", "must be non-negative")
	} else {
		price = *req.Price
	}

	brandID, err := s.resolveRef(ctx, p, "brands", "brand_id", req.BrandID, fieldErrs)
	if err != nil {
		return nil, err
	}
	vendorID, err := s.resolveRef(ctx, p, "vendors", "vendor_id", req.VendorID, fieldErrs)
	if err != nil {
		return nil, err
	}
	typeID, err := s.resolveRef(ctx, p, "product_types", "product_type_id", req.ProductTypeID, fieldErrs)
	if err != nil {
		return nil, err
	}

	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            s.genID.Generate(),
		EnterpriseID:  p.Enterprise(),
		BrandID:       brandID,
		VendorID:      vendorID,
		ProductTypeID: typeID,
		Name:          name,
		Price:         price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.resource.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("enterprise_id", product.EnterpriseID.String()),
	)
	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoPrincipal
	}

	productID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.resource.FetchScoped(ctx, productID)
	if err != nil {
		return nil, err
	}

	fieldErrs := validation.FieldErrors{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			fieldErrs.Add("name", "required")
		} else {
			item.Name = name
		}
	}
	if req.Price != nil {
		if *req.Price < 0 {
			fieldErrs.Add("price", "must be non-negative")
		} else {
			item.Price = *req.Price
		}
	}
	if req.BrandID != nil {
		item.BrandID, err = s.resolveRef(ctx, p, "brands", "brand_id", *req.BrandID, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	if req.VendorID != nil {
		item.VendorID, err = s.resolveRef(ctx, p, "vendors", "vendor_id", *req.VendorID, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	if req.ProductTypeID != nil {
		item.ProductTypeID, err = s.resolveRef(ctx, p, "product_types", "product_type_id", *req.ProductTypeID, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.resource.Update(ctx, productID, item); err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := resource.ParseID(id)
	if err != nil {
		return err
	}
	return s.resource.Delete(ctx, productID)
}

// resolveRef checks that a referenced catalog row exists under the caller's
// enterprise. Cross-enterprise references fail exactly like missing ones;
// a database failure is returned as-is, not folded into the field errors.
func (s *Service) resolveRef(ctx context.Context, p principal.Principal, table, field, raw string, fieldErrs validation.FieldErrors) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		fieldErrs.Add(field, "does not exist")
		return 0, nil
	}

	var count int64
	err = s.db.WithContext(ctx).
		Table(table).
		Where("id = ? AND enterprise_id = ?", id.Int64(), int64(p.Enterprise())).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count == 0 {
		fieldErrs.Add(field, "does not exist")
		return 0, nil
	}
	return id, nil
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:            p.ID.String(),
		EnterpriseID:  p.EnterpriseID.String(),
		BrandID:       p.BrandID.String(),
		VendorID:      p.VendorID.String(),
		ProductTypeID: p.ProductTypeID.String(),
		Name:          p.Name,
		Price:         p.Price,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}
