package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/session"
	branddomain "github.com/storekeep/storekeep/internal/brand/domain"
	"github.com/storekeep/storekeep/internal/config"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	obslogger "github.com/storekeep/storekeep/internal/observability/logger"
	obstracing "github.com/storekeep/storekeep/internal/observability/tracing"
	orderdomain "github.com/storekeep/storekeep/internal/order/domain"
	productdomain "github.com/storekeep/storekeep/internal/product/domain"
	producttypedomain "github.com/storekeep/storekeep/internal/producttype/domain"
	storedomain "github.com/storekeep/storekeep/internal/store/domain"
	stockdomain "github.com/storekeep/storekeep/internal/storestock/domain"
	vendordomain "github.com/storekeep/storekeep/internal/vendors/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	genID          *snowflake.Node
	sessions       *session.Manager
	authSvc        authdomain.Service
	enterpriseSvc  enterprisedomain.Service
	storeSvc       storedomain.Service
	brandSvc       branddomain.Service
	vendorSvc      vendordomain.Service
	productTypeSvc producttypedomain.Service
	productSvc     productdomain.Service
	storeStockSvc  stockdomain.Service
	orderSvc       orderdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	GenID          *snowflake.Node
	Sessions       *session.Manager
	AuthSvc        authdomain.Service
	EnterpriseSvc  enterprisedomain.Service
	StoreSvc       storedomain.Service
	BrandSvc       branddomain.Service
	VendorSvc      vendordomain.Service
	ProductTypeSvc producttypedomain.Service
	ProductSvc     productdomain.Service
	StoreStockSvc  stockdomain.Service
	OrderSvc       orderdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		genID:          p.GenID,
		sessions:       p.Sessions,
		authSvc:        p.AuthSvc,
		enterpriseSvc:  p.EnterpriseSvc,
		storeSvc:       p.StoreSvc,
		brandSvc:       p.BrandSvc,
		vendorSvc:      p.VendorSvc,
		productTypeSvc: p.ProductTypeSvc,
		productSvc:     p.ProductSvc,
		storeStockSvc:  p.StoreStockSvc,
		orderSvc:       p.OrderSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.AuthRequired(), s.Logout)

	s.engine.GET("/user", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/", s.AuthRequired())

	resource := func(path string, list, create, show, update, remove gin.HandlerFunc) {
		group := api.Group(path)
		group.GET("", list)
		group.POST("", create)
		group.GET("/:id", show)
		group.PUT("/:id", update)
		group.DELETE("/:id", remove)
	}

	resource("enterprise", s.ListEnterprises, s.CreateEnterprise, s.GetEnterprise, s.UpdateEnterprise, s.DeleteEnterprise)
	resource("store", s.ListStores, s.CreateStore, s.GetStore, s.UpdateStore, s.DeleteStore)
	resource("brand", s.ListBrands, s.CreateBrand, s.GetBrand, s.UpdateBrand, s.DeleteBrand)
	resource("vendor", s.ListVendors, s.CreateVendor, s.GetVendor, s.UpdateVendor, s.DeleteVendor)
	resource("product-type", s.ListProductTypes, s.CreateProductType, s.GetProductType, s.UpdateProductType, s.DeleteProductType)
	resource("product", s.ListProducts, s.CreateProduct, s.GetProduct, s.UpdateProduct, s.DeleteProduct)

	api.POST("store-stock", s.UpsertStoreStock)
	api.POST("store-stock/:id", s.UpsertStoreStock)

	api.GET("order", s.ListOrders)
	api.POST("order", s.CreateOrder)
	api.GET("order/:id", s.GetOrder)
}
