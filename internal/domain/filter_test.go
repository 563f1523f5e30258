package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func filterCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Blue Mug", Price: 100, Categories: []int64{10}},
		{ID: 2, Name: "Red Mug", Price: 80, Categories: []int64{10, 20}},
		{ID: 3, Name: "Poster", Price: 80, Categories: []int64{20}},
		{ID: 4, Name: "Sticker", Price: 5},
	}
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestVisibleProductsNoFilterPassesAll(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestVisibleProductsSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{SearchText: "mUg"})
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestVisibleProductsCategoryIntersection(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{Categories: []int64{20}})
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestVisibleProductsCategoryFilterExcludesUncategorized(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{Categories: []int64{10, 20, 99}})
	assert.NotContains(t, ids(got), int64(4))
}

func TestVisibleProductsPriceRange(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		PriceFrom: floatPtr(50),
		PriceTo:   floatPtr(90),
	})
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestVisibleProductsContradictoryBoundsGiveEmptyResult(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		PriceFrom: floatPtr(200),
		PriceTo:   floatPtr(100),
	})
	assert.Empty(t, got)
}

func TestVisibleProductsEmptyCatalog(t *testing.T) {
	got := domain.VisibleProducts(nil, domain.FilterSpec{SearchText: "mug"})
	assert.Empty(t, got)
}

func TestVisibleProductsSortByPrice(t *testing.T) {
	asc := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		SortKey: domain.SortKeyPrice, SortDirection: domain.SortAsc,
	})
	assert.Equal(t, []int64{4, 2, 3, 1}, ids(asc))

	desc := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		SortKey: domain.SortKeyPrice, SortDirection: domain.SortDesc,
	})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(desc))
}

func TestVisibleProductsSortIsStableOnTies(t *testing.T) {
	// products 2 and 3 share a price; their catalog order must survive in
	// both directions
	asc := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		SortKey: domain.SortKeyPrice, SortDirection: domain.SortAsc,
	})
	iOf := func(list []int64, id int64) int {
		for i, v := range list {
			if v == id {
				return i
			}
		}
		return -1
	}
	la := ids(asc)
	assert.Less(t, iOf(la, 2), iOf(la, 3))

	desc := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		SortKey: domain.SortKeyPrice, SortDirection: domain.SortDesc,
	})
	ld := ids(desc)
	assert.Less(t, iOf(ld, 2), iOf(ld, 3))
}

func TestVisibleProductsSortNonePreservesOrder(t *testing.T) {
	got := domain.VisibleProducts(filterCatalog(), domain.FilterSpec{
		SortKey: domain.SortKeyPrice, SortDirection: domain.SortNone,
	})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestVisibleProductsIdempotent(t *testing.T) {
	spec := domain.FilterSpec{
		SearchText:    "mug",
		Categories:    []int64{10},
		PriceFrom:     floatPtr(10),
		SortKey:       domain.SortKeyPrice,
		SortDirection: domain.SortAsc,
	}
	once := domain.VisibleProducts(filterCatalog(), spec)
	twice := domain.VisibleProducts(once, spec)
	assert.Equal(t, once, twice)
}

func TestVisibleProductsDoesNotAliasInput(t *testing.T) {
	catalog := filterCatalog()
	catalog[0].ExtraOptions = []domain.OptionGroup{{
		Name: "Size", Kind: domain.OptionKindBlock,
		Variants: []string{"S"}, Selected: []bool{false},
	}}
	got := domain.VisibleProducts(catalog, domain.FilterSpec{})
	require.NotEmpty(t, got)
	got[0].ExtraOptions[0].Selected[0] = true
	assert.False(t, catalog[0].ExtraOptions[0].Selected[0])
}
