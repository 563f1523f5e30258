package domain

import (
	"sort"
	"strings"
)

type SortDirection string

const (
	SortNone SortDirection = "none"
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortKey string

const (
	SortKeyPrice SortKey = "price"
	SortKeyName  SortKey = "name"
)

// FilterSpec selects and orders the visible subset of the catalog. Nil price
// bounds are open; an empty category list disables the category filter.
type FilterSpec struct {
	SearchText    string
	Categories    []int64
	PriceFrom     *float64
	PriceTo       *float64
	SortKey       SortKey
	SortDirection SortDirection
}

// VisibleProducts applies the filter pipeline: name substring match, category
// intersection, price range, then a stable sort. Contradictory bounds give an
// empty result, not an error. The returned slice never aliases the input.
func VisibleProducts(products []Product, spec FilterSpec) []Product {
	search := strings.ToLower(strings.TrimSpace(spec.SearchText))
	out := []Product{}
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if len(spec.Categories) > 0 && !p.InAnyCategory(spec.Categories) {
			continue
		}
		if spec.PriceFrom != nil && p.Price < *spec.PriceFrom {
			continue
		}
		if spec.PriceTo != nil && p.Price > *spec.PriceTo {
			continue
		}
		out = append(out, p.Clone())
	}

	dir := spec.SortDirection
	if dir != SortAsc && dir != SortDesc {
		return out
	}
	less := lessFunc(spec.SortKey)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key SortKey) func(a, b Product) bool {
	switch key {
	case SortKeyName:
		return func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return func(a, b Product) bool { return a.Price < b.Price }
	}
}
