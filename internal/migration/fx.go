package migration

import (
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	branddomain "github.com/storekeep/storekeep/internal/brand/domain"
	"github.com/storekeep/storekeep/internal/config"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	orderdomain "github.com/storekeep/storekeep/internal/order/domain"
	productdomain "github.com/storekeep/storekeep/internal/product/domain"
	producttypedomain "github.com/storekeep/storekeep/internal/producttype/domain"
	"github.com/storekeep/storekeep/internal/seed"
	storedomain "github.com/storekeep/storekeep/internal/store/domain"
	stockdomain "github.com/storekeep/storekeep/internal/storestock/domain"
	vendordomain "github.com/storekeep/storekeep/internal/vendors/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite fall back to the model-derived schema.
			if err := conn.AutoMigrate(
				&enterprisedomain.Enterprise{},
				&storedomain.Store{},
				&authdomain.User{},
				&authdomain.Session{},
				&branddomain.Brand{},
				&vendordomain.Vendor{},
				&producttypedomain.ProductType{},
				&productdomain.Product{},
				&stockdomain.StoreStock{},
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
			); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureAdmin {
			return seed.EnsureAdmin(conn, cfg)
		}
		return nil
	}),
)
