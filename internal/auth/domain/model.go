// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is a system account. EnterpriseID and StoreID are nullable; their
// combination decides the principal tier per request.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	EnterpriseID *int64       `gorm:"column:enterprise_id;index"`
	StoreID      *int64       `gorm:"column:store_id;index"`
	Name         string       `gorm:"type:text;not null"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `gorm:"type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

// Session is a persisted login session; only the token hash is stored.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Session) TableName() string { return "sessions" }

// RegisterRequest creates a user account. EnterpriseID/StoreID affiliate the
// account at signup time.
type RegisterRequest struct {
	Name         string
	Email        string
	Password     string
	EnterpriseID *int64
	StoreID      *int64
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult carries the raw session token exactly once.
type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
}
