// Package scope resolves the tenant visibility filter for a principal.
//
// Every repository call against a tenant-owned table goes through a Filter so
// the boundary is explicit and testable instead of hidden in per-model query
// hooks. A row excluded by the filter is reported as not found, never as
// forbidden: existence is not revealed across tenants.
package scope

import (
	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/principal"
	"gorm.io/gorm"
)

// Kind names how a table is tenanted.
type Kind int

const (
	// KindGlobal rows belong to no tenant (enterprises themselves).
	KindGlobal Kind = iota
	// KindEnterprise rows carry enterprise_id (catalog data, stores, products).
	KindEnterprise
	// KindStore rows carry enterprise_id and store_id (orders, store stocks).
	KindStore
)

// Filter is the resolved visibility predicate. Nil fields mean no constraint.
type Filter struct {
	EnterpriseID *snowflake.ID
	StoreID      *snowflake.ID
}

// ForPrincipal derives the filter applied to queries of the given kind.
func ForPrincipal(p principal.Principal, kind Kind) Filter {
	switch p.Tier() {
	case principal.TierEnterprise:
		if kind == KindGlobal {
			return Filter{}
		}
		id := p.Enterprise()
		return Filter{EnterpriseID: &id}
	case principal.TierStore:
		if kind == KindGlobal {
			return Filter{}
		}
		entID := p.Enterprise()
		f := Filter{EnterpriseID: &entID}
		if kind == KindStore {
			storeID := p.Store()
			f.StoreID = &storeID
		}
		return f
	default:
		return Filter{}
	}
}

// Apply adds the filter's predicates to a query.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	if f.EnterpriseID != nil {
		db = db.Where("enterprise_id = ?", int64(*f.EnterpriseID))
	}
	if f.StoreID != nil {
		db = db.Where("store_id = ?", int64(*f.StoreID))
	}
	return db
}

// Matches reports whether a row with the given tenant columns is visible.
func (f Filter) Matches(enterpriseID, storeID snowflake.ID) bool {
	if f.EnterpriseID != nil && *f.EnterpriseID != enterpriseID {
		return false
	}
	if f.StoreID != nil && *f.StoreID != storeID {
		return false
	}
	return true
}
