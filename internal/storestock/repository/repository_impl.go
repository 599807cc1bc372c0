package repository

import (
	"context"
	"errors"
	"time"

	"github.com/storekeep/storekeep/internal/storestock/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledger struct{}

func Provide() domain.Ledger {
	return &ledger{}
}

func (r *ledger) Get(ctx context.Context, db *gorm.DB, storeID, productID int64) (*domain.StoreStock, error) {
	var row domain.StoreStock
	err := db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ledger) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.StoreStock, error) {
	var row domain.StoreStock
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ledger) Upsert(ctx context.Context, db *gorm.DB, row *domain.StoreStock) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
		}).
		Create(row).Error
}

func (r *ledger) SetRow(ctx context.Context, db *gorm.DB, id int64, productID int64, stock int64) error {
	return db.WithContext(ctx).
		Model(&domain.StoreStock{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"product_id": productID,
			"stock":      stock,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *ledger) ConditionalDecrement(ctx context.Context, db *gorm.DB, storeID, productID, amount int64) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.StoreStock{}).
		Where("store_id = ? AND product_id = ? AND stock >= ?", storeID, productID, amount).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
