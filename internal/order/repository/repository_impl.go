package repository

import (
	"context"
	"errors"

	"github.com/storekeep/storekeep/internal/order/domain"
	"github.com/storekeep/storekeep/internal/scope"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, order *domain.Order, items []domain.OrderItem) error {
	if err := tx.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64, filter scope.Filter) (*domain.Order, error) {
	var order domain.Order
	stmt := filter.Apply(db.WithContext(ctx).Where("id = ?", id))
	err := stmt.Preload("Items").First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter scope.Filter, params pagination.Params) ([]domain.Order, int64, error) {
	var total int64
	if err := filter.Apply(db.WithContext(ctx).Model(&domain.Order{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	n := params.Normalize()
	var orders []domain.Order
	err := filter.Apply(db.WithContext(ctx)).
		Preload("Items").
		Order("created_at desc").
		Limit(n.PerPage).
		Offset(params.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repo) ProductsByIDs(ctx context.Context, tx *gorm.DB, enterpriseID int64, productIDs []int64) (map[int64]domain.ProductRow, error) {
	var rows []domain.ProductRow
	err := tx.WithContext(ctx).
		Table("products").
		Select("id, price").
		Where("enterprise_id = ? AND id IN ?", enterpriseID, productIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64]domain.ProductRow, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repo) StocksForUpdate(ctx context.Context, tx *gorm.DB, storeID int64, productIDs []int64) (map[int64]domain.StockRow, error) {
	stmt := tx.WithContext(ctx).
		Table("store_stocks").
		Select("id, product_id, stock").
		Where("store_id = ? AND product_id IN ?", storeID, productIDs)

	// sqlite serializes writers on its own and rejects row locks.
	if tx.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []struct {
		ID        int64
		ProductID int64
		Stock     int64
	}
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[int64]domain.StockRow, len(rows))
	for _, row := range rows {
		out[row.ProductID] = domain.StockRow{ID: row.ID, Stock: row.Stock}
	}
	return out, nil
}
