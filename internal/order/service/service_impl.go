package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/observability/metrics"
	"github.com/storekeep/storekeep/internal/order/domain"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/internal/scope"
	stockdomain "github.com/storekeep/storekeep/internal/storestock/domain"
	"github.com/storekeep/storekeep/pkg/db/pagination"
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
	Repo    domain.Repository
	Ledger  stockdomain.Ledger
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	authz   authz.Service
	repo    domain.Repository
	ledger  stockdomain.Ledger
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		authz:   p.Authz,
		repo:    p.Repo,
		ledger:  p.Ledger,
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[domain.Response], error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return pagination.Page[domain.Response]{}, resource.ErrNoPrincipal
	}
	if err := s.authz.Can(ctx, p.Tier(), authz.ObjectOrder, authz.ActionViewAny); err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	filter := scope.ForPrincipal(p, scope.KindStore)
	orders, total, err := s.repo.List(ctx, s.db, filter, params)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	data := make([]domain.Response, 0, len(orders))
	for i := range orders {
		data = append(data, toResponse(&orders[i]))
	}
	page := pagination.NewPage(data, total, params)
	return page, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoPrincipal
	}

	orderID, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}

	filter := scope.ForPrincipal(p, scope.KindStore)
	order, err := s.repo.FindByID(ctx, s.db, orderID, filter)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, resource.ErrNotFound
	}
	if err := s.authz.Can(ctx, p.Tier(), authz.ObjectOrder, authz.ActionView); err != nil {
		return nil, err
	}

	resp := toResponse(order)
	return &resp, nil
}

// orderLine is one request line after structural validation.
type orderLine struct {
	index     int
	productID int64
	amount    int64
}

func (s *Service) Create(ctx context.Context, lines []domain.LineRequest) (*domain.Response, error) {
	p, ok := principal.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoPrincipal
	}
	if err := s.authz.Can(ctx, p.Tier(), authz.ObjectOrder, authz.ActionCreate); err != nil {
		return nil, err
	}

	parsed, fieldErrs := parseLines(lines)
	if fieldErrs.Any() {
		s.metrics.RecordOrderRejected(ctx, "validation")
		return nil, fieldErrs
	}

	var order *domain.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, txErr := s.place(ctx, tx, p, parsed)
		if txErr != nil {
			return txErr
		}
		order = created
		return nil
	})
	if err != nil {
		var vErr validation.FieldErrors
		if errors.As(err, &vErr) {
			s.metrics.RecordOrderRejected(ctx, "stock")
		}
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, len(order.Items))
	s.log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("store_id", order.StoreID.String()),
		zap.Int64("total", order.Total),
		zap.Int("lines", len(order.Items)),
	)

	resp := toResponse(order)
	return &resp, nil
}

// parseLines runs the structural checks, accumulating every failure.
func parseLines(lines []domain.LineRequest) ([]orderLine, validation.FieldErrors) {
	fieldErrs := validation.FieldErrors{}
	if len(lines) == 0 {
		fieldErrs.Add("order", "at least one line is required")
		return nil, fieldErrs
	}

	parsed := make([]orderLine, 0, len(lines))
	for i, l := range lines {
		entry := orderLine{index: i}

		if l.ProductID == nil || strings.TrimSpace(*l.ProductID) == "" {
			fieldErrs.AddIndexed(i, "product_id", "required")
		} else if id, err := snowflake.ParseString(strings.TrimSpace(*l.ProductID)); err != nil {
			fieldErrs.AddIndexed(i, "product_id", "does not exist")
		} else {
			entry.productID = id.Int64()
		}

		if l.Amount == nil {
			fieldErrs.AddIndexed(i, "amount", "required")
		} else if *l.Amount < 1 {
			fieldErrs.AddIndexed(i, "amount", "must be at least 1")
		} else {
			entry.amount = *l.Amount
		}

		parsed = append(parsed, entry)
	}
	return parsed, fieldErrs
}

// place runs inside one transaction: snapshot products and stock, validate
// every line against the snapshot, then persist order, items, and stock
// decrements together. Any line failure aborts the whole order.
func (s *Service) place(ctx context.Context, tx *gorm.DB, p principal.Principal, parsed []orderLine) (*domain.Order, error) {
	productIDs := make([]int64, 0, len(parsed))
	for _, l := range parsed {
		productIDs = append(productIDs, l.productID)
	}

	products, err := s.repo.ProductsByIDs(ctx, tx, int64(p.Enterprise()), productIDs)
	if err != nil {
		return nil, err
	}
	stocks, err := s.repo.StocksForUpdate(ctx, tx, int64(p.Store()), productIDs)
	if err != nil {
		return nil, err
	}

	fieldErrs := validation.FieldErrors{}
	for _, l := range parsed {
		if _, ok := products[l.productID]; !ok {
			fieldErrs.AddIndexed(l.index, "product_id", "does not exist")
			continue
		}
		stock, ok := stocks[l.productID]
		if !ok {
			fieldErrs.AddIndexed(l.index, "product_id", "stock not available in this store")
			continue
		}
		if stock.Stock < l.amount {
			fieldErrs.AddIndexed(l.index, "amount", fmt.Sprintf("insufficient stock, available %d", stock.Stock))
		}
	}
	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:           s.genID.Generate(),
		EnterpriseID: p.Enterprise(),
		StoreID:      p.Store(),
		UserID:       p.UserID,
		CreatedAt:    now,
	}

	items := make([]domain.OrderItem, 0, len(parsed))
	for _, l := range parsed {
		subtotal := products[l.productID].Price * l.amount
		order.Total += subtotal
		items = append(items, domain.OrderItem{
			ID:           s.genID.Generate(),
			EnterpriseID: p.Enterprise(),
			StoreID:      p.Store(),
			UserID:       p.UserID,
			OrderID:      order.ID,
			ProductID:    snowflake.ID(l.productID),
			Amount:       l.amount,
			Subtotal:     subtotal,
			CreatedAt:    now,
		})
	}

	if err := s.repo.Create(ctx, tx, order, items); err != nil {
		return nil, err
	}

	for _, l := range parsed {
		decremented, err := s.ledger.ConditionalDecrement(ctx, tx, int64(p.Store()), l.productID, l.amount)
		if err != nil {
			return nil, err
		}
		if !decremented {
			// A concurrent order consumed the stock between the snapshot and
			// here. Re-read the row so the error reports what is left.
			available := int64(0)
			if row, rerr := s.ledger.Get(ctx, tx, int64(p.Store()), l.productID); rerr == nil && row != nil {
				available = row.Stock
			}
			errs := validation.FieldErrors{}
			errs.AddIndexed(l.index, "amount", fmt.Sprintf("insufficient stock, available %d", available))
			return nil, errs
		}
	}

	order.Items = items
	return order, nil
}

func toResponse(o *domain.Order) domain.Response {
	items := make([]domain.ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, domain.ItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Amount:    item.Amount,
			Subtotal:  item.Subtotal,
		})
	}
	return domain.Response{
		ID:           o.ID.String(),
		EnterpriseID: o.EnterpriseID.String(),
		StoreID:      o.StoreID.String(),
		UserID:       o.UserID.String(),
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}
