package crawler

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter decides which candidates become records
type Filter struct {
	keywords   []string
	excluded   string
	priceLow   float64
	priceHigh  float64
	checkRange bool
}

// NewFilter prepares the criteria for matching. With enforceRange the price
// bounds are also checked locally instead of trusting the search endpoint.
func NewFilter(c SearchCriteria, enforceRange bool) *Filter {
	f := &Filter{
		keywords:   make([]string, len(c.Keywords)),
		excluded:   fold(c.Excluded),
		priceLow:   float64(c.PriceLow),
		priceHigh:  float64(c.PriceHigh),
		checkRange: enforceRange,
	}
	for i, kw := range c.Keywords {
		f.keywords[i] = fold(kw)
	}
	return f
}

// Accept reports whether title contains every keyword and not the excluded one
func (f *Filter) Accept(title string) bool {
	t := fold(title)
	for _, kw := range f.keywords {
		if !strings.Contains(t, kw) {
			return false
		}
	}
	return f.excluded == "" || !strings.Contains(t, f.excluded)
}

// InRange reports whether price is acceptable. Always true unless range
// enforcement is on.
func (f *Filter) InRange(price float64) bool {
	if !f.checkRange {
		return true
	}
	return price >= f.priceLow && price <= f.priceHigh
}

func fold(s string) string {
	return cases.Fold().String(s)
}
