package paging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vinoteca/stockbot/paging"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_MiddlePage(t *testing.T) {
	p := paging.Paginate(ints(20), 2, 8)

	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16}, p.Items)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 3, p.Total)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	p := paging.Paginate(ints(20), 3, 8)

	assert.Equal(t, []int{17, 18, 19, 20}, p.Items)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	// Stale buttons may request a page past the end of a shrunken list, or
	// page 0; both clamp instead of failing.

	p := paging.Paginate(ints(10), 99, 8)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, []int{9, 10}, p.Items)

	p = paging.Paginate(ints(10), 0, 8)
	assert.Equal(t, 1, p.Number)

	p = paging.Paginate(ints(10), -3, 8)
	assert.Equal(t, 1, p.Number)
}

func TestPaginate_EmptyListHasOnePage(t *testing.T) {
	p := paging.Paginate([]int(nil), 5, 8)

	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.Total)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)
}

func TestPaginate_ExactMultiple(t *testing.T) {
	p := paging.Paginate(ints(16), 2, 8)

	assert.Equal(t, 2, p.Total)
	assert.Len(t, p.Items, 8)
	assert.False(t, p.HasNext)
}

func TestPaginate_PerPageFallback(t *testing.T) {
	p := paging.Paginate(ints(9), 1, 0)

	assert.Len(t, p.Items, paging.DefaultPerPage)
	assert.Equal(t, 2, p.Total)
}
