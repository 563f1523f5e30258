package domain

// OptionKind discriminates the configurable option types a product can carry.
type OptionKind string

const (
	// OptionKindText is display-only info, never serialized into an order.
	OptionKindText OptionKind = "text"
	// OptionKindBlock is a single-select variant list at the base price.
	OptionKindBlock OptionKind = "block"
	// OptionKindPricedBlock is a single-select variant list where each
	// variant overrides the product price.
	OptionKindPricedBlock OptionKind = "priced_block"
)

// OptionGroup is a named single-select attribute of a product (e.g. size).
// Variants, VariantPrices and Selected are parallel lists; at most one
// Selected entry may be true at any time.
type OptionGroup struct {
	Name          string     `json:"name"`
	Kind          OptionKind `json:"type"`
	Variants      []string   `json:"variants"`
	VariantPrices []float64  `json:"variants_prices,omitempty"`
	Selected      []bool     `json:"selected"`
}

// SelectedIndex returns the index of the chosen variant, or -1 when the
// group has no selection.
func (g OptionGroup) SelectedIndex() int {
	for i, on := range g.Selected {
		if on {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so that snapshots never alias option arrays.
func (g OptionGroup) Clone() OptionGroup {
	out := g
	if g.Variants != nil {
		out.Variants = append([]string(nil), g.Variants...)
	}
	if g.VariantPrices != nil {
		out.VariantPrices = append([]float64(nil), g.VariantPrices...)
	}
	if g.Selected != nil {
		out.Selected = append([]bool(nil), g.Selected...)
	}
	return out
}

// Product is one catalog entry. Count is the available stock and caps the
// buyable quantity; nil means uncapped. BuyCount is the quantity currently
// chosen in the cart.
type Product struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	Count        *int          `json:"count,omitempty"`
	Categories   []int64       `json:"category,omitempty"`
	Pictures     []string      `json:"picture,omitempty"`
	ExtraOptions []OptionGroup `json:"extra_options"`
	BuyCount     int           `json:"buy_count"`
}

func (p Product) Clone() Product {
	out := p
	if p.Count != nil {
		c := *p.Count
		out.Count = &c
	}
	if p.Categories != nil {
		out.Categories = append([]int64(nil), p.Categories...)
	}
	if p.Pictures != nil {
		out.Pictures = append([]string(nil), p.Pictures...)
	}
	if p.ExtraOptions != nil {
		out.ExtraOptions = make([]OptionGroup, len(p.ExtraOptions))
		for i, g := range p.ExtraOptions {
			out.ExtraOptions[i] = g.Clone()
		}
	}
	return out
}

// EffectivePrice is the variant price of the selected priced_block variant
// when one is selected, otherwise the base price. Single-select guarantees
// at most one active override.
func (p Product) EffectivePrice() float64 {
	for _, g := range p.ExtraOptions {
		if g.Kind != OptionKindPricedBlock {
			continue
		}
		if i := g.SelectedIndex(); i >= 0 && i < len(g.VariantPrices) {
			return g.VariantPrices[i]
		}
	}
	return p.Price
}

// InAnyCategory reports whether the product belongs to at least one of the
// given categories. A product with no categories matches nothing.
func (p Product) InAnyCategory(ids []int64) bool {
	for _, want := range ids {
		for _, have := range p.Categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Category is a shop category as served by the upstream categories endpoint.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
