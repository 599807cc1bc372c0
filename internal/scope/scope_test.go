package scope

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeep/storekeep/internal/principal"
	"github.com/stretchr/testify/assert"
)

func idPtr(v int64) *snowflake.ID {
	id := snowflake.ID(v)
	return &id
}

func TestForPrincipalUnaffiliated(t *testing.T) {
	p := principal.Principal{UserID: 1}

	for _, kind := range []Kind{KindGlobal, KindEnterprise, KindStore} {
		f := ForPrincipal(p, kind)
		assert.Nil(t, f.EnterpriseID)
		assert.Nil(t, f.StoreID)
	}
}

func TestForPrincipalEnterpriseTier(t *testing.T) {
	p := principal.Principal{UserID: 1, EnterpriseID: idPtr(10)}

	f := ForPrincipal(p, KindEnterprise)
	assert.Equal(t, snowflake.ID(10), *f.EnterpriseID)
	assert.Nil(t, f.StoreID)

	// Store-scoped kinds still filter by enterprise only: the principal sees
	// every store of its enterprise.
	f = ForPrincipal(p, KindStore)
	assert.Equal(t, snowflake.ID(10), *f.EnterpriseID)
	assert.Nil(t, f.StoreID)

	f = ForPrincipal(p, KindGlobal)
	assert.Nil(t, f.EnterpriseID)
}

func TestForPrincipalStoreTier(t *testing.T) {
	p := principal.Principal{UserID: 1, EnterpriseID: idPtr(10), StoreID: idPtr(20)}

	f := ForPrincipal(p, KindEnterprise)
	assert.Equal(t, snowflake.ID(10), *f.EnterpriseID)
	assert.Nil(t, f.StoreID)

	f = ForPrincipal(p, KindStore)
	assert.Equal(t, snowflake.ID(10), *f.EnterpriseID)
	assert.Equal(t, snowflake.ID(20), *f.StoreID)
}

func TestMatches(t *testing.T) {
	f := Filter{EnterpriseID: idPtr(10), StoreID: idPtr(20)}
	assert.True(t, f.Matches(10, 20))
	assert.False(t, f.Matches(10, 21))
	assert.False(t, f.Matches(11, 20))

	open := Filter{}
	assert.True(t, open.Matches(99, 99))
}
