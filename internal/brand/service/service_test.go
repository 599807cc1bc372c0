package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/storekeep/storekeep/internal/authz"
	"github.com/storekeep/storekeep/internal/brand/domain"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/pkg/db/pagination"
	"github.com/storekeep/storekeep/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service

	entA enterprisedomain.Enterprise
	entB enterprisedomain.Enterprise
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&enterprisedomain.Enterprise{}, &domain.Brand{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authz.NewEnforcer(db)
	require.NoError(t, err)

	f := &fixture{
		db:   db,
		node: node,
		svc: New(Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: node,
			Authz: authz.New(zap.NewNop(), enforcer),
		}),
	}

	f.entA = enterprisedomain.Enterprise{ID: node.Generate(), Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(&f.entA).Error)
	f.entB = enterprisedomain.Enterprise{ID: node.Generate(), Name: "Blorp", Slug: "blorp"}
	require.NoError(t, db.Create(&f.entB).Error)
	return f
}

func (f *fixture) ctxFor(entID snowflake.ID) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UserID:       f.node.Generate(),
		EnterpriseID: &entID,
	})
}

func (f *fixture) unaffiliatedCtx() context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UserID: f.node.Generate(),
	})
}

func TestCreateStampsCallerEnterprise(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "  Northwind  "})
	require.NoError(t, err)
	assert.Equal(t, "Northwind", resp.Name)
	assert.Equal(t, f.entA.ID.String(), resp.EnterpriseID)

	_, err = f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "   "})
	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "required", fieldErrs["name"])
}

func TestCreateDeniedOutsideEnterpriseTier(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.unaffiliatedCtx(), domain.CreateRequest{Name: "Northwind"})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestListIsScopedToCallerEnterprise(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "Alpha"})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "Beta"})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctxFor(f.entB.ID), domain.CreateRequest{Name: "Gamma"})
	require.NoError(t, err)

	page, err := f.svc.List(f.ctxFor(f.entA.ID), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, b := range page.Data {
		assert.Equal(t, f.entA.ID.String(), b.EnterpriseID)
	}

	// The unaffiliated admin sees every enterprise's rows.
	page, err = f.svc.List(f.unaffiliatedCtx(), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestGetOutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "Alpha"})
	require.NoError(t, err)

	_, err = f.svc.Get(f.ctxFor(f.entB.ID), created.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)

	got, err := f.svc.Get(f.ctxFor(f.entA.ID), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateAndDeleteRespectScope(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctxFor(f.entA.ID), domain.CreateRequest{Name: "Alpha"})
	require.NoError(t, err)

	newName := "Alpha Prime"
	_, err = f.svc.Update(f.ctxFor(f.entB.ID), created.ID, domain.UpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, resource.ErrNotFound)

	updated, err := f.svc.Update(f.ctxFor(f.entA.ID), created.ID, domain.UpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Prime", updated.Name)

	err = f.svc.Delete(f.ctxFor(f.entB.ID), created.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)
	require.NoError(t, f.svc.Delete(f.ctxFor(f.entA.ID), created.ID))

	_, err = f.svc.Get(f.ctxFor(f.entA.ID), created.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(f.ctxFor(f.entA.ID), "not-a-number")
	assert.ErrorIs(t, err, resource.ErrNotFound)
}
