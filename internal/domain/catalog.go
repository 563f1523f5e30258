package domain

import "fmt"

// CatalogState is the single source of truth for what is in the cart and how
// each product is configured. Every operation returns a fresh, fully
// independent snapshot; earlier snapshots are never mutated, so concurrent
// readers holding old references are safe.
type CatalogState struct {
	Products []Product
}

// LoadCatalog replaces the catalog with the given product list. Buy counts
// start at zero and every option group starts with no selection. Returns
// ErrInvalidCatalog when a product entry has no id.
func LoadCatalog(products []Product) (CatalogState, error) {
	out := make([]Product, len(products))
	for i, p := range products {
		if p.ID == 0 {
			return CatalogState{}, fmt.Errorf("%w: product %q has no id", ErrInvalidCatalog, p.Name)
		}
		c := p.Clone()
		c.BuyCount = 0
		for j := range c.ExtraOptions {
			c.ExtraOptions[j].Selected = make([]bool, len(c.ExtraOptions[j].Variants))
		}
		out[i] = c
	}
	return CatalogState{Products: out}, nil
}

// Clone deep-copies the whole state.
func (s CatalogState) Clone() CatalogState {
	out := make([]Product, len(s.Products))
	for i, p := range s.Products {
		out[i] = p.Clone()
	}
	return CatalogState{Products: out}
}

// Product finds a product by id. The result is deep-copied so callers can
// never mutate the snapshot through it.
func (s CatalogState) Product(id int64) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Product{}, false
}

// Has reports whether the catalog contains a product with the id, without
// copying anything.
func (s CatalogState) Has(id int64) bool {
	for _, p := range s.Products {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SetQuantity returns a new state with the product's buy count adjusted by
// delta and clamped to [0, Count]. An unknown product id yields an unchanged
// snapshot: stale references from a racing UI are recoverable, not fatal.
func (s CatalogState) SetQuantity(productID int64, delta int) CatalogState {
	next := s.Clone()
	for i := range next.Products {
		p := &next.Products[i]
		if p.ID != productID {
			continue
		}
		q := p.BuyCount + delta
		if q < 0 {
			q = 0
		}
		if p.Count != nil && q > *p.Count {
			q = *p.Count
		}
		p.BuyCount = q
		break
	}
	return next
}

// SelectVariant returns a new state where the named option group of the
// product has all selections cleared and, when desiredOn is true, the given
// variant selected. Toggling the same variant off still ends with at most
// one selection. Unresolvable product/group/index yields an unchanged
// snapshot.
func (s CatalogState) SelectVariant(productID int64, groupName string, variantIndex int, desiredOn bool) CatalogState {
	next := s.Clone()
	for i := range next.Products {
		if next.Products[i].ID != productID {
			continue
		}
		for j := range next.Products[i].ExtraOptions {
			g := &next.Products[i].ExtraOptions[j]
			if g.Name != groupName {
				continue
			}
			if variantIndex < 0 || variantIndex >= len(g.Selected) {
				return next
			}
			for k := range g.Selected {
				g.Selected[k] = false
			}
			if desiredOn {
				g.Selected[variantIndex] = true
			}
			return next
		}
		return next
	}
	return next
}

// Lines returns the cart lines: products with a nonzero buy count, in
// catalog order, deep-copied.
func (s CatalogState) Lines() []Product {
	lines := []Product{}
	for _, p := range s.Products {
		if p.BuyCount > 0 {
			lines = append(lines, p.Clone())
		}
	}
	return lines
}
