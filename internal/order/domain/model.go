package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Order is immutable once created: no update or delete path exists.
type Order struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	EnterpriseID snowflake.ID `json:"enterprise_id" gorm:"not null;index"`
	StoreID      snowflake.ID `json:"store_id" gorm:"not null;index"`
	UserID       snowflake.ID `json:"user_id" gorm:"not null"`
	Total        int64        `json:"total" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem freezes the unit price at order time in Subtotal.
type OrderItem struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	EnterpriseID snowflake.ID `json:"enterprise_id" gorm:"not null"`
	StoreID      snowflake.ID `json:"store_id" gorm:"not null"`
	UserID       snowflake.ID `json:"user_id" gorm:"not null"`
	OrderID      snowflake.ID `json:"order_id" gorm:"not null;index"`
	ProductID    snowflake.ID `json:"product_id" gorm:"not null"`
	Amount       int64        `json:"amount" gorm:"not null"`
	Subtotal     int64        `json:"subtotal" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderItem) TableName() string { return "order_items" }
