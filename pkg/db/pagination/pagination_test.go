package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	n := Params{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, DefaultPerPage, n.PerPage)

	n = Params{Page: -3, PerPage: 100000}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, MaxPerPage, n.PerPage)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 30, Params{Page: 4, PerPage: 10}.Offset())
}

func TestNewPageLastPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 25, Params{Page: 1, PerPage: 10})
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 1, page.CurrentPage)

	empty := NewPage[int](nil, 0, Params{})
	assert.Equal(t, 1, empty.LastPage)
	assert.NotNil(t, empty.Data)
	assert.Len(t, empty.Data, 0)
}

func TestMapPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 2, Params{Page: 1, PerPage: 10})
	mapped := MapPage(page, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4}, mapped.Data)
	assert.Equal(t, page.Total, mapped.Total)
	assert.Equal(t, page.LastPage, mapped.LastPage)
}
