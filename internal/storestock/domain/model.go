package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StoreStock is the quantity-on-hand ledger row for one product in one
// store. At most one row exists per (store_id, product_id); it changes only
// through an explicit upsert or the decrement that order placement performs.
type StoreStock struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	EnterpriseID snowflake.ID `json:"enterprise_id" gorm:"not null;index"`
	StoreID      snowflake.ID `json:"store_id" gorm:"not null;uniqueIndex:ux_store_stocks_store_product,priority:1"`
	ProductID    snowflake.ID `json:"product_id" gorm:"not null;uniqueIndex:ux_store_stocks_store_product,priority:2"`
	Stock        int64        `json:"stock" gorm:"not null;default:0"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StoreStock) TableName() string { return "store_stocks" }
