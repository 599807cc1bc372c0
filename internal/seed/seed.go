// Package seed bootstraps the first unaffiliated administrator so a fresh
// install can log in and create enterprises.
package seed

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	authservice "github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/internal/config"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin account when it does not exist.
// The account is unaffiliated: no enterprise, no store.
func EnsureAdmin(db *gorm.DB, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))
	if email == "" || cfg.Bootstrap.AdminPassword == "" {
		return errors.New("bootstrap admin email and password are required")
	}

	var existing authdomain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	hashed, err := authservice.HashPassword(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return db.Create(&authdomain.User{
		ID:           node.Generate(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}
