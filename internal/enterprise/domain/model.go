package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Enterprise is the top-level tenant; every catalog row and store hangs off
// one enterprise.
type Enterprise struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Slug      string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Enterprise) TableName() string { return "enterprises" }
