package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/repository"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	storedomain "github.com/storekeep/storekeep/internal/store/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&enterprisedomain.Enterprise{},
		&storedomain.Store{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	userRepo, sessionRepo := repository.New(db)
	svc := New(db, zap.NewNop(), userRepo, sessionRepo, node)
	return svc, db, node
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse battery staple", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))
	assert.False(t, VerifyPassword("correct horse battery staple", "not-a-hash"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, user.EnterpriseID)

	// Duplicate email is rejected regardless of case.
	_, err = svc.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "bob@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterAffiliationChecks(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	ent := enterprisedomain.Enterprise{ID: node.Generate(), Name: "E1", Slug: "e1"}
	require.NoError(t, db.Create(&ent).Error)
	otherEnt := enterprisedomain.Enterprise{ID: node.Generate(), Name: "E2", Slug: "e2"}
	require.NoError(t, db.Create(&otherEnt).Error)
	st := storedomain.Store{ID: node.Generate(), EnterpriseID: ent.ID, Name: "S1"}
	require.NoError(t, db.Create(&st).Error)

	entID := int64(ent.ID)
	otherEntID := int64(otherEnt.ID)
	storeID := int64(st.ID)
	missing := int64(999999)

	// Store without enterprise is invalid.
	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "a@example.com", Password: "password123", StoreID: &storeID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAffiliation)

	// Store must belong to the named enterprise.
	_, err = svc.Register(ctx, domain.RegisterRequest{
		Email: "b@example.com", Password: "password123", EnterpriseID: &otherEntID, StoreID: &storeID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAffiliation)

	// Unknown enterprise is invalid.
	_, err = svc.Register(ctx, domain.RegisterRequest{
		Email: "c@example.com", Password: "password123", EnterpriseID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAffiliation)

	// A matching pair is accepted.
	user, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "d@example.com", Password: "password123", EnterpriseID: &entID, StoreID: &storeID,
	})
	require.NoError(t, err)
	assert.Equal(t, entID, *user.EnterpriseID)
	assert.Equal(t, storeID, *user.StoreID)
}

func TestAuthenticateLifecycle(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "carol@example.com", Password: "password123",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "garbage-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	// Expired sessions are rejected.
	require.NoError(t, db.Model(&domain.Session{}).
		Where("user_id = ?", int64(registered.ID)).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)
	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	require.NoError(t, db.Model(&domain.Session{}).
		Where("user_id = ?", int64(registered.ID)).
		Update("expires_at", time.Now().UTC().Add(time.Hour)).Error)

	// Logout revokes the session.
	require.NoError(t, svc.Logout(ctx, result.RawToken))
	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}
