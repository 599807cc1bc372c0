package principal

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func idPtr(v int64) *snowflake.ID {
	id := snowflake.ID(v)
	return &id
}

func TestTierDerivation(t *testing.T) {
	unaffiliated := Principal{UserID: 1}
	assert.Equal(t, TierUnaffiliated, unaffiliated.Tier())

	enterprise := Principal{UserID: 1, EnterpriseID: idPtr(10)}
	assert.Equal(t, TierEnterprise, enterprise.Tier())

	store := Principal{UserID: 1, EnterpriseID: idPtr(10), StoreID: idPtr(20)}
	assert.Equal(t, TierStore, store.Tier())
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "unaffiliated", TierUnaffiliated.String())
	assert.Equal(t, "enterprise", TierEnterprise.String())
	assert.Equal(t, "store", TierStore.String())
}

func TestAccessorsReturnZeroWhenUnset(t *testing.T) {
	p := Principal{UserID: 1}
	assert.Equal(t, snowflake.ID(0), p.Enterprise())
	assert.Equal(t, snowflake.ID(0), p.Store())

	p = Principal{UserID: 1, EnterpriseID: idPtr(10), StoreID: idPtr(20)}
	assert.Equal(t, snowflake.ID(10), p.Enterprise())
	assert.Equal(t, snowflake.ID(20), p.Store())
}

func TestContextRoundTrip(t *testing.T) {
	p := Principal{UserID: 42, EnterpriseID: idPtr(10)}
	ctx := WithPrincipal(context.Background(), p)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
