// Package principal carries the authenticated caller and its derived tier.
package principal

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Tier is the affiliation level derived from a user's enterprise/store links.
type Tier int

const (
	// TierUnaffiliated has neither enterprise nor store: platform administration.
	TierUnaffiliated Tier = iota
	// TierEnterprise manages one enterprise's catalog and stores.
	TierEnterprise
	// TierStore operates a single store: stock upkeep and order placement.
	TierStore
)

func (t Tier) String() string {
	switch t {
	case TierEnterprise:
		return "enterprise"
	case TierStore:
		return "store"
	default:
		return "unaffiliated"
	}
}

// Principal is the authenticated caller for one request. EnterpriseID and
// StoreID mirror the user row's nullable foreign keys; StoreID set implies
// EnterpriseID set.
type Principal struct {
	UserID       snowflake.ID
	EnterpriseID *snowflake.ID
	StoreID      *snowflake.ID
}

// Tier derives the role tier once; it is never stored.
func (p Principal) Tier() Tier {
	switch {
	case p.EnterpriseID != nil && p.StoreID != nil:
		return TierStore
	case p.EnterpriseID != nil:
		return TierEnterprise
	default:
		return TierUnaffiliated
	}
}

// Enterprise returns the principal's enterprise ID, or 0 when unaffiliated.
func (p Principal) Enterprise() snowflake.ID {
	if p.EnterpriseID == nil {
		return 0
	}
	return *p.EnterpriseID
}

// Store returns the principal's store ID, or 0 when not store-tier.
func (p Principal) Store() snowflake.ID {
	if p.StoreID == nil {
		return 0
	}
	return *p.StoreID
}

type contextKey struct{}

// WithPrincipal stores the principal in the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal from context, if set.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
