// Package authz decides allow/deny per (tier, resource kind, action).
//
// Ownership is intentionally not part of the policy matrix: the scope filter
// already restricts affiliated principals to rows of their own enterprise or
// store, so an out-of-scope row fails the fetch as not-found before any rule
// here runs. What remains is the pure tier matrix below.
package authz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/storekeep/storekeep/internal/principal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

// ErrForbidden is returned when a visible resource rejects the action.
var ErrForbidden = errors.New("forbidden")

const (
	ObjectEnterprise  = "enterprise"
	ObjectStore       = "store"
	ObjectBrand       = "brand"
	ObjectVendor      = "vendor"
	ObjectProductType = "product_type"
	ObjectProduct     = "product"
	ObjectStoreStock  = "store_stock"
	ObjectOrder       = "order"
)

const (
	ActionViewAny = "view_any"
	ActionView    = "view"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
)

// Service answers authorization questions for a principal tier.
type Service interface {
	Can(ctx context.Context, tier principal.Tier, object, action string) error
}

type service struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds the casbin enforcer over the shared database and seeds
// the tier policies.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// New builds the authorization service.
func New(log *zap.Logger, enforcer *casbin.SyncedEnforcer) Service {
	return &service{
		log:      log.Named("authz.service"),
		enforcer: enforcer,
	}
}

func (s *service) Can(ctx context.Context, tier principal.Tier, object, action string) error {
	subject := subjectFor(tier)
	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func subjectFor(tier principal.Tier) string {
	return fmt.Sprintf("tier:%s", tier)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Enterprise administration is reserved for unaffiliated principals.
		{"tier:unaffiliated", ObjectEnterprise, ActionViewAny},
		{"tier:unaffiliated", ObjectEnterprise, ActionView},
		{"tier:unaffiliated", ObjectEnterprise, ActionCreate},
		{"tier:unaffiliated", ObjectEnterprise, ActionUpdate},
		{"tier:unaffiliated", ObjectEnterprise, ActionDelete},

		// Stores are managed by enterprise employees; store employees cannot
		// modify their own store.
		{"tier:unaffiliated", ObjectStore, ActionViewAny},
		{"tier:unaffiliated", ObjectStore, ActionView},
		{"tier:enterprise", ObjectStore, ActionViewAny},
		{"tier:enterprise", ObjectStore, ActionView},
		{"tier:enterprise", ObjectStore, ActionCreate},
		{"tier:enterprise", ObjectStore, ActionUpdate},
		{"tier:enterprise", ObjectStore, ActionDelete},

		// Orders: everyone sees within their scope, only store employees create.
		{"tier:unaffiliated", ObjectOrder, ActionViewAny},
		{"tier:unaffiliated", ObjectOrder, ActionView},
		{"tier:enterprise", ObjectOrder, ActionViewAny},
		{"tier:enterprise", ObjectOrder, ActionView},
		{"tier:store", ObjectOrder, ActionViewAny},
		{"tier:store", ObjectOrder, ActionView},
		{"tier:store", ObjectOrder, ActionCreate},

		// Stock upkeep belongs to the store floor.
		{"tier:store", ObjectStoreStock, ActionCreate},
		{"tier:store", ObjectStoreStock, ActionUpdate},
	}

	// Catalog kinds share one rule set.
	for _, object := range []string{ObjectBrand, ObjectVendor, ObjectProductType, ObjectProduct} {
		policies = append(policies,
			[]string{"tier:unaffiliated", object, ActionViewAny},
			[]string{"tier:unaffiliated", object, ActionView},
			[]string{"tier:enterprise", object, ActionViewAny},
			[]string{"tier:enterprise", object, ActionView},
			[]string{"tier:enterprise", object, ActionCreate},
			[]string{"tier:enterprise", object, ActionUpdate},
			[]string{"tier:enterprise", object, ActionDelete},
			[]string{"tier:store", object, ActionViewAny},
			[]string{"tier:store", object, ActionView},
		)
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
