package repo

// ProductFilter narrows a catalog listing. Prices are compared against the
// discounted unit price.
type ProductFilter struct {
	Title    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	Offset   *int
	Limit    *int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
