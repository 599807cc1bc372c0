package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/storekeep/storekeep/internal/authz"
	branddomain "github.com/storekeep/storekeep/internal/brand/domain"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/internal/principal"
	productdomain "github.com/storekeep/storekeep/internal/product/domain"
	producttypedomain "github.com/storekeep/storekeep/internal/producttype/domain"
	"github.com/storekeep/storekeep/internal/resource"
	storedomain "github.com/storekeep/storekeep/internal/store/domain"
	"github.com/storekeep/storekeep/internal/storestock/domain"
	"github.com/storekeep/storekeep/internal/storestock/repository"
	vendordomain "github.com/storekeep/storekeep/internal/vendors/domain"
	"github.com/storekeep/storekeep/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	ledger  domain.Ledger
	ent     enterprisedomain.Enterprise
	store   storedomain.Store
	product productdomain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&enterprisedomain.Enterprise{},
		&storedomain.Store{},
		&branddomain.Brand{},
		&vendordomain.Vendor{},
		&producttypedomain.ProductType{},
		&productdomain.Product{},
		&domain.StoreStock{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authz.NewEnforcer(db)
	require.NoError(t, err)
	authzSvc := authz.New(zap.NewNop(), enforcer)

	ledger := repository.Provide()
	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Authz:  authzSvc,
		Ledger: ledger,
	})

	f := &fixture{db: db, node: node, svc: svc, ledger: ledger}

	f.ent = enterprisedomain.Enterprise{ID: node.Generate(), Name: "E1", Slug: "e1"}
	require.NoError(t, db.Create(&f.ent).Error)
	f.store = storedomain.Store{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "S1"}
	require.NoError(t, db.Create(&f.store).Error)

	brand := branddomain.Brand{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "B"}
	require.NoError(t, db.Create(&brand).Error)
	vendor := vendordomain.Vendor{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "V"}
	require.NoError(t, db.Create(&vendor).Error)
	ptype := producttypedomain.ProductType{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "T"}
	require.NoError(t, db.Create(&ptype).Error)

	f.product = productdomain.Product{
		ID: node.Generate(), EnterpriseID: f.ent.ID,
		BrandID: brand.ID, VendorID: vendor.ID, ProductTypeID: ptype.ID,
		Name: "Widget", Price: 1000,
	}
	require.NoError(t, db.Create(&f.product).Error)

	return f
}

func (f *fixture) storeCtx() context.Context {
	entID := f.ent.ID
	storeID := f.store.ID
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       f.node.Generate(),
		EnterpriseID: &entID,
		StoreID:      &storeID,
	})
}

func int64Ptr(v int64) *int64 { return &v }

func TestUpsertCreatesAndOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := f.storeCtx()

	resp, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Stock)
	assert.Equal(t, f.store.ID.String(), resp.StoreID)

	// Upsert is an absolute set, keyed by (store, product): one row only.
	resp2, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp2.Stock)
	assert.Equal(t, resp.ID, resp2.ID)

	var count int64
	require.NoError(t, f.db.Model(&domain.StoreStock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	row, err := f.ledger.Get(context.Background(), f.db, int64(f.store.ID), int64(f.product.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(4), row.Stock)
}

func TestUpsertByID(t *testing.T) {
	f := newFixture(t)
	ctx := f.storeCtx()

	created, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(3),
	})
	require.NoError(t, err)

	updated, err := f.svc.Upsert(ctx, created.ID, domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(9),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(9), updated.Stock)
}

func TestUpsertByIDReassignsProduct(t *testing.T) {
	f := newFixture(t)
	ctx := f.storeCtx()

	created, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(3),
	})
	require.NoError(t, err)

	other := productdomain.Product{
		ID: f.node.Generate(), EnterpriseID: f.ent.ID,
		BrandID: f.product.BrandID, VendorID: f.product.VendorID, ProductTypeID: f.product.ProductTypeID,
		Name: "Gadget", Price: 500,
	}
	require.NoError(t, f.db.Create(&other).Error)

	// The id-keyed update applies the whole payload, product included.
	updated, err := f.svc.Upsert(ctx, created.ID, domain.UpsertRequest{
		ProductID: other.ID.String(),
		Stock:     int64Ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID.String(), updated.ProductID)
	assert.Equal(t, int64(7), updated.Stock)

	rowID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)
	row, err := f.ledger.FindByID(context.Background(), f.db, rowID.Int64())
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, other.ID, row.ProductID)
	assert.Equal(t, int64(7), row.Stock)
}

func TestUpsertByIDProductCollision(t *testing.T) {
	f := newFixture(t)
	ctx := f.storeCtx()

	other := productdomain.Product{
		ID: f.node.Generate(), EnterpriseID: f.ent.ID,
		BrandID: f.product.BrandID, VendorID: f.product.VendorID, ProductTypeID: f.product.ProductTypeID,
		Name: "Gadget", Price: 500,
	}
	require.NoError(t, f.db.Create(&other).Error)

	first, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(3),
	})
	require.NoError(t, err)
	_, err = f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: other.ID.String(),
		Stock:     int64Ptr(4),
	})
	require.NoError(t, err)

	// Reassigning the first row onto the other product would collide with
	// that product's own row.
	_, err = f.svc.Upsert(ctx, first.ID, domain.UpsertRequest{
		ProductID: other.ID.String(),
		Stock:     int64Ptr(9),
	})
	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "already tracked in this store", fieldErrs["product_id"])

	rowID, err := snowflake.ParseString(first.ID)
	require.NoError(t, err)
	row, err := f.ledger.FindByID(context.Background(), f.db, rowID.Int64())
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, f.product.ID, row.ProductID)
	assert.Equal(t, int64(3), row.Stock)
}

func TestUpsertByIDOutOfScope(t *testing.T) {
	f := newFixture(t)

	// A ledger row belonging to a different store of the same enterprise.
	otherStore := storedomain.Store{ID: f.node.Generate(), EnterpriseID: f.ent.ID, Name: "S2"}
	require.NoError(t, f.db.Create(&otherStore).Error)
	foreign := domain.StoreStock{
		ID: f.node.Generate(), EnterpriseID: f.ent.ID,
		StoreID: otherStore.ID, ProductID: f.product.ID, Stock: 5,
	}
	require.NoError(t, f.db.Create(&foreign).Error)

	_, err := f.svc.Upsert(f.storeCtx(), foreign.ID.String(), domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(1),
	})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestUpsertDeniedForEnterpriseTier(t *testing.T) {
	f := newFixture(t)

	entID := f.ent.ID
	ctx := principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       f.node.Generate(),
		EnterpriseID: &entID,
	})

	_, err := f.svc.Upsert(ctx, "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(1),
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestUpsertUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upsert(f.storeCtx(), "", domain.UpsertRequest{
		ProductID: f.node.Generate().String(),
		Stock:     int64Ptr(1),
	})

	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "does not exist", fieldErrs["product_id"])
}

func TestConditionalDecrementBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upsert(f.storeCtx(), "", domain.UpsertRequest{
		ProductID: f.product.ID.String(),
		Stock:     int64Ptr(5),
	})
	require.NoError(t, err)

	// Requesting more than available mutates nothing.
	ok, err := f.ledger.ConditionalDecrement(ctx, f.db, int64(f.store.ID), int64(f.product.ID), 6)
	require.NoError(t, err)
	assert.False(t, ok)
	row, err := f.ledger.Get(ctx, f.db, int64(f.store.ID), int64(f.product.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.Stock)

	// amount == stock drains the row to exactly zero.
	ok, err = f.ledger.ConditionalDecrement(ctx, f.db, int64(f.store.ID), int64(f.product.ID), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	row, err = f.ledger.Get(ctx, f.db, int64(f.store.ID), int64(f.product.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Stock)

	// Absent row reports false, not an error.
	ok, err = f.ledger.ConditionalDecrement(ctx, f.db, int64(f.store.ID), 12345, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
