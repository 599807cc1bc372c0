package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Store is a sales location under one enterprise. It owns a stock ledger
// row per product and the orders its employees place.
type Store struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	EnterpriseID snowflake.ID `json:"enterprise_id" gorm:"not null;index"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Store) TableName() string { return "stores" }
