package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product belongs to one enterprise; its brand, vendor, and type must
// resolve under the same enterprise. Price is in the smallest currency unit.
type Product struct {
	ID            snowflake.ID      `json:"id" gorm:"primaryKey"`
	EnterpriseID  snowflake.ID      `json:"enterprise_id" gorm:"not null;index"`
	BrandID       snowflake.ID      `json:"brand_id" gorm:"not null"`
	VendorID      snowflake.ID      `json:"vendor_id" gorm:"not null"`
	ProductTypeID snowflake.ID      `json:"product_type_id" gorm:"not null"`
	Name          string            `json:"name" gorm:"type:text;not null"`
	Price         int64             `json:"price" gorm:"not null"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
