package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/storekeep/storekeep/internal/authz"
	branddomain "github.com/storekeep/storekeep/internal/brand/domain"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/internal/order/domain"
	orderrepo "github.com/storekeep/storekeep/internal/order/repository"
	"github.com/storekeep/storekeep/internal/principal"
	productdomain "github.com/storekeep/storekeep/internal/product/domain"
	producttypedomain "github.com/storekeep/storekeep/internal/producttype/domain"
	"github.com/storekeep/storekeep/internal/resource"
	storedomain "github.com/storekeep/storekeep/internal/store/domain"
	stockdomain "github.com/storekeep/storekeep/internal/storestock/domain"
	stockrepo "github.com/storekeep/storekeep/internal/storestock/repository"
	vendordomain "github.com/storekeep/storekeep/internal/vendors/domain"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"github.com/storekeep/storekeep/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	node   *snowflake.Node
	svc    domain.Service
	ledger stockdomain.Ledger

	ent   enterprisedomain.Enterprise
	store storedomain.Store
	brand branddomain.Brand
	vend  vendordomain.Vendor
	ptype producttypedomain.ProductType
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
		&stockdomain.StoreStock{},
		&domain.Order{},
		&domain.OrderItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authz.NewEnforcer(db)
	require.NoError(t, err)

	ledger := stockrepo.Provide()
	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Authz:  authz.New(zap.NewNop(), enforcer),
		Repo:   orderrepo.Provide(),
		Ledger: ledger,
	})

	f := &fixture{db: db, node: node, svc: svc, ledger: ledger}

	f.ent = enterprisedomain.Enterprise{ID: node.Generate(), Name: "E1", Slug: "e1"}
	require.NoError(t, db.Create(&f.ent).Error)
	f.store = storedomain.Store{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "S1"}
	require.NoError(t, db.Create(&f.store).Error)
	f.brand = branddomain.Brand{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "B"}
	require.NoError(t, db.Create(&f.brand).Error)
	f.vend = vendordomain.Vendor{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "V"}
	require.NoError(t, db.Create(&f.vend).Error)
	f.ptype = producttypedomain.ProductType{ID: node.Generate(), EnterpriseID: f.ent.ID, Name: "T"}
	require.NoError(t, db.Create(&f.ptype).Error)

	return f
}

func (f *fixture) newProduct(t *testing.T, price int64) productdomain.Product {
	t.Helper()
	p := productdomain.Product{
		ID: f.node.Generate(), EnterpriseID: f.ent.ID,
		BrandID: f.brand.ID, VendorID: f.vend.ID, ProductTypeID: f.ptype.ID,
		Name: "Widget", Price: price,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stock(t *testing.T, storeID, productID snowflake.ID, qty int64) {
	t.Helper()
	require.NoError(t, f.db.Create(&stockdomain.StoreStock{
		ID: f.node.Generate(), EnterpriseID: f.ent.ID,
		StoreID: storeID, ProductID: productID, Stock: qty,
	}).Error)
}

func (f *fixture) storeCtx() context.Context {
	return storeCtxFor(f.node, f.ent.ID, f.store.ID)
}

func storeCtxFor(node *snowflake.Node, entID, storeID snowflake.ID) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       node.Generate(),
		EnterpriseID: &entID,
		StoreID:      &storeID,
	})
}

func line(productID string, amount int64) domain.LineRequest {
	return domain.LineRequest{ProductID: &productID, Amount: &amount}
}

func (f *fixture) stockOf(t *testing.T, productID snowflake.ID) int64 {
	t.Helper()
	row, err := f.ledger.Get(context.Background(), f.db, int64(f.store.ID), int64(productID))
	require.NoError(t, err)
	require.NotNil(t, row)
	return row.Stock
}

func TestPlaceOrderConsumesStock(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 1000)
	f.stock(t, f.store.ID, product.ID, 10)

	resp, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 4)})
	require.NoError(t, err)

	assert.Equal(t, int64(4000), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(4), resp.Items[0].Amount)
	assert.Equal(t, int64(4000), resp.Items[0].Subtotal)
	assert.Equal(t, int64(6), f.stockOf(t, product.ID))

	var orders, items int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), items)
}

func TestPlaceOrderAccumulatesAllLineErrors(t *testing.T) {
	f := newFixture(t)
	unknown := f.node.Generate()

	withStock := f.newProduct(t, 500)
	f.stock(t, f.store.ID, withStock.ID, 7)
	noStock := f.newProduct(t, 200)

	_, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{
		line(unknown.String(), 1),
		line(noStock.ID.String(), 1),
		line(withStock.ID.String(), 8),
	})

	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "does not exist", fieldErrs["0.product_id"])
	assert.Equal(t, "stock not available in this store", fieldErrs["1.product_id"])
	assert.Equal(t, "insufficient stock, available 7", fieldErrs["2.amount"])

	// Nothing was written; the in-stock line was not partially fulfilled.
	var orders int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(7), f.stockOf(t, withStock.ID))
}

func TestPlaceOrderStructuralValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.storeCtx(), nil)
	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "order")

	productID := f.node.Generate().String()
	zero := int64(0)
	_, err = f.svc.Create(f.storeCtx(), []domain.LineRequest{
		{ProductID: nil, Amount: nil},
		{ProductID: &productID, Amount: &zero},
	})
	fieldErrs = nil
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "required", fieldErrs["0.product_id"])
	assert.Equal(t, "required", fieldErrs["0.amount"])
	assert.Equal(t, "must be at least 1", fieldErrs["1.amount"])
}

func TestPlaceOrderBoundary(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 100)
	f.stock(t, f.store.ID, product.ID, 5)

	// amount == stock drains the ledger to zero.
	resp, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 5)})
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.Total)
	assert.Equal(t, int64(0), f.stockOf(t, product.ID))

	// One more unit fails, naming what is left.
	_, err = f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 1)})
	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "insufficient stock, available 0", fieldErrs["0.amount"])
}

func TestPlaceOrderAtomicAcrossDuplicateLines(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 100)
	f.stock(t, f.store.ID, product.ID, 5)

	// Each line passes against the snapshot, but together they overdraw the
	// row. The second decrement must fail and roll everything back.
	_, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{
		line(product.ID.String(), 3),
		line(product.ID.String(), 3),
	})

	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, fmt.Sprintf("insufficient stock, available %d", 2), fieldErrs["1.amount"])

	assert.Equal(t, int64(5), f.stockOf(t, product.ID))
	var orders, items int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), items)
}

func TestSimultaneousOrdersNeverBothSucceed(t *testing.T) {
	f := newFixture(t)

	// One pooled connection so both placements contend for the same row.
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	product := f.newProduct(t, 100)
	f.stock(t, f.store.ID, product.ID, 10)

	// Two orders of 6 against a stock of 10: whichever commits first wins,
	// the other must fail with what the winner left behind.
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 6)})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Equal(t, "insufficient stock, available 4", fieldErrs["0.amount"])
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(4), f.stockOf(t, product.ID))

	var orders, items int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), items)
}

func TestPlaceOrderDeniedForEnterpriseTier(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 100)
	f.stock(t, f.store.ID, product.ID, 5)

	entID := f.ent.ID
	ctx := principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       f.node.Generate(),
		EnterpriseID: &entID,
	})

	_, err := f.svc.Create(ctx, []domain.LineRequest{line(product.ID.String(), 1)})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestGetOrderOutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 1000)
	f.stock(t, f.store.ID, product.ID, 10)

	placed, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 1)})
	require.NoError(t, err)

	// A store employee of another enterprise cannot even learn the order
	// exists.
	otherEnt := enterprisedomain.Enterprise{ID: f.node.Generate(), Name: "E2", Slug: "e2"}
	require.NoError(t, f.db.Create(&otherEnt).Error)
	otherStore := storedomain.Store{ID: f.node.Generate(), EnterpriseID: otherEnt.ID, Name: "S9"}
	require.NoError(t, f.db.Create(&otherStore).Error)

	_, err = f.svc.Get(storeCtxFor(f.node, otherEnt.ID, otherStore.ID), placed.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)

	// The placing store still sees it.
	got, err := f.svc.Get(f.storeCtx(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	assert.Len(t, got.Items, 1)
}

func TestListOrdersScoping(t *testing.T) {
	f := newFixture(t)
	product := f.newProduct(t, 100)
	f.stock(t, f.store.ID, product.ID, 10)

	otherStore := storedomain.Store{ID: f.node.Generate(), EnterpriseID: f.ent.ID, Name: "S2"}
	require.NoError(t, f.db.Create(&otherStore).Error)
	f.stock(t, otherStore.ID, product.ID, 10)

	_, err := f.svc.Create(f.storeCtx(), []domain.LineRequest{line(product.ID.String(), 1)})
	require.NoError(t, err)
	_, err = f.svc.Create(storeCtxFor(f.node, f.ent.ID, otherStore.ID), []domain.LineRequest{line(product.ID.String(), 1)})
	require.NoError(t, err)

	// Store tier sees only its own store's orders.
	page, err := f.svc.List(f.storeCtx(), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// Enterprise tier sees both stores.
	entID := f.ent.ID
	entCtx := principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       f.node.Generate(),
		EnterpriseID: &entID,
	})
	page, err = f.svc.List(entCtx, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}
