package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID    int64
	Name  string
	Price float64
}

func productRegistry() *Registry[product] {
	return NewRegistry[product]("Product").
		Register("Id", "id", func(p *product) any { return p.ID }).
		Register("Name", "name", func(p *product) any { return p.Name }).
		Register("Price", "price", func(p *product) any { return p.Price })
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Ascending, ParseDirection("ASC"))
	assert.Equal(t, Ascending, ParseDirection("  Asc "))
	// Anything that is not "asc" sorts descending, by contract.
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection("xyz"))
	assert.Equal(t, Descending, ParseDirection(""))
}

// TestPurpose: Validates that dynamic sorting is stable and that an
// unrecognized direction token falls back to descending order.
// Scope: Unit Test
// Expected: Ties keep their relative input order in both directions.
func TestSortSlice_StableWithDefaultDescending(t *testing.T) {
	reg := productRegistry()
	items := []*product{
		{ID: 1, Name: "b", Price: 10},
		{ID: 2, Name: "a", Price: 10},
		{ID: 3, Name: "c", Price: 5},
		{ID: 4, Name: "d", Price: 10},
	}

	require.NoError(t, SortSlice(items, reg, "price", Ascending))
	assert.Equal(t, []int64{3, 1, 2, 4}, ids(items))

	// "xyz" is not "asc", so this sorts descending; the 10s keep the
	// relative order the ascending pass left them in.
	require.NoError(t, SortSlice(items, reg, "price", ParseDirection("xyz")))
	assert.Equal(t, []int64{1, 2, 4, 3}, ids(items))
}

func TestSortSlice_FieldNameIsCaseNormalized(t *testing.T) {
	reg := productRegistry()
	items := []*product{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}

	require.NoError(t, SortSlice(items, reg, "name", Ascending))
	assert.Equal(t, []int64{1, 2}, ids(items))
}

func TestSortSlice_UnknownColumnFails(t *testing.T) {
	reg := productRegistry()
	items := []*product{{ID: 1}, {ID: 2}}

	err := SortSlice(items, reg, "nosuchcolumn", Ascending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSort)
	// The input must be left untouched on failure.
	assert.Equal(t, []int64{1, 2}, ids(items))
}

func ids(items []*product) []int64 {
	out := make([]int64, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
