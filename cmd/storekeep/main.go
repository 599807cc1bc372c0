package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/auth"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/brand"
	"github.com/storekeep/storekeep/internal/config"
	"github.com/storekeep/storekeep/internal/enterprise"
	"github.com/storekeep/storekeep/internal/migration"
	"github.com/storekeep/storekeep/internal/observability"
	"github.com/storekeep/storekeep/internal/order"
	"github.com/storekeep/storekeep/internal/product"
	"github.com/storekeep/storekeep/internal/producttype"
	"github.com/storekeep/storekeep/internal/server"
	"github.com/storekeep/storekeep/internal/store"
	"github.com/storekeep/storekeep/internal/storestock"
	"github.com/storekeep/storekeep/internal/vendors"
	"github.com/storekeep/storekeep/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		authz.Module,

		// Domains
		auth.Module,
		enterprise.Module,
		store.Module,
		brand.Module,
		vendors.Module,
		producttype.Module,
		product.Module,
		storestock.Module,
		order.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
