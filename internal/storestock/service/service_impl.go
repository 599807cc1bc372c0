package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/observability/metrics"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/internal/storestock/domain"
	"github.com/storekeep/storekeep/pkg/db"
	"github.com/storekeep/storekeep/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Authz   authz.Service
	Ledger  domain.Ledger
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	authz   authz.Service
	ledger  domain.Ledger
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("storestock.service"),
		genID:   p.GenID,
		authz:   p.Authz,
		ledger:  p.Ledger,
		metrics: p.Metrics,
	}
}

func (s *Service) Upsert(ctx context.Context, id string, req domain.UpsertRequest) (*domain.Response, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoPrincipal
	}

	action := authz.ActionCreate
	if id != "" {
		action = authz.ActionUpdate
	}
	if err := s.authz.Can(ctx, p.Tier(), authz.ObjectStoreStock, action); err != nil {
		return nil, err
	}

	fieldErrs := validation.FieldErrors{}

	var stock int64
	if req.Stock == nil {
		fieldErrs.Add("stock", "required")
	} else if *req.Stock < 0 {
		fieldErrs.Add("stock", "must be non-negative")
	} else {
		stock = *req.Stock
	}

	productID, perr := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if perr != nil {
		fieldErrs.Add("product_id", "does not exist")
	} else if err := s.checkProduct(ctx, p, productID.Int64()); err != nil {
		if err != errProductMissing {
			return nil, err
		}
		fieldErrs.Add("product_id", "does not exist")
	}
	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	if id != "" {
		return s.updateByID(ctx, p, id, productID, stock)
	}
	return s.upsertByKeys(ctx, p, productID, stock)
}

// updateByID overwrites an existing ledger row with the full payload. The
// row must be visible under the caller's store scope, else not found.
func (s *Service) updateByID(ctx context.Context, p principal.Principal, id string, productID snowflake.ID, stock int64) (*domain.Response, error) {
	rowID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}

	row, err := s.ledger.FindByID(ctx, s.db, rowID)
	if err != nil {
		return nil, err
	}
	filter := scope.ForPrincipal(p, scope.KindStore)
	if row == nil || !filter.Matches(row.EnterpriseID, row.StoreID) {
		return nil, resource.ErrNotFound
	}

	if err := s.ledger.SetRow(ctx, s.db, rowID, productID.Int64(), stock); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Reassigning the row to a product this store already tracks
			// would collide with that product's own row.
			return nil, validation.FieldErrors{"product_id": "already tracked in this store"}
		}
		return nil, err
	}
	s.metrics.RecordStockUpsert(ctx)

	row.ProductID = productID
	row.Stock = stock
	row.UpdatedAt = time.Now().UTC()
	resp := toResponse(row)
	return &resp, nil
}

func (s *Service) upsertByKeys(ctx context.Context, p principal.Principal, productID snowflake.ID, stock int64) (*domain.Response, error) {
	now := time.Now().UTC()
	row := &domain.StoreStock{
		ID:           s.genID.Generate(),
		EnterpriseID: p.Enterprise(),
		StoreID:      p.Store(),
		ProductID:    productID,
		Stock:        stock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.ledger.Upsert(ctx, s.db, row); err != nil {
		return nil, err
	}
	s.metrics.RecordStockUpsert(ctx)

	// Re-read so an update on an existing row reports that row's identity.
	current, err := s.ledger.Get(ctx, s.db, int64(p.Store()), productID.Int64())
	if err != nil {
		return nil, err
	}
	if current != nil {
		row = current
	}

	s.log.Info("stock upserted",
		zap.String("store_id", row.StoreID.String()),
		zap.String("product_id", row.ProductID.String()),
		zap.Int64("stock", row.Stock),
	)
	resp := toResponse(row)
	return &resp, nil
}

var errProductMissing = gorm.ErrRecordNotFound

// checkProduct verifies the product resolves under the caller's enterprise.
func (s *Service) checkProduct(ctx context.Context, p principal.Principal, productID int64) error {
	var count int64
	err := s.db.WithContext(ctx).
		Table("products").
		Where("id = ? AND enterprise_id = ?", productID, int64(p.Enterprise())).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errProductMissing
	}
	return nil
}

func toResponse(row *domain.StoreStock) domain.Response {
	return domain.Response{
		ID:           row.ID.String(),
		EnterpriseID: row.EnterpriseID.String(),
		StoreID:      row.StoreID.String(),
		ProductID:    row.ProductID.String(),
		Stock:        row.Stock,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
