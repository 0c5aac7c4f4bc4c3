package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAccept(t *testing.T) {
	f := NewFilter(SearchCriteria{Keywords: []string{"iphone", "13"}, PriceLow: 200, PriceHigh: 800, Excluded: "broken"}, false)

	assert.True(t, f.Accept("iPhone 13 128GB"))
	assert.True(t, f.Accept("IPHONE 13 PRO"))
	assert.False(t, f.Accept("iPhone 13 Broken screen"))
	assert.False(t, f.Accept("iPhone 12 64GB"))
	assert.False(t, f.Accept("Samsung S13"))
}

func TestFilterWithoutExclusion(t *testing.T) {
	f := NewFilter(SearchCriteria{Keywords: []string{"gpu"}}, false)

	assert.True(t, f.Accept("GPU broken fan"))
	assert.False(t, f.Accept("CPU cooler"))
}

func TestFilterFoldsGreek(t *testing.T) {
	f := NewFilter(SearchCriteria{Keywords: []string{"κάρτα"}, Excluded: "ΧΑΛΑΣΜΈΝΗ"}, false)

	assert.True(t, f.Accept("ΚΆΡΤΑ γραφικών RTX"))
	assert.False(t, f.Accept("Κάρτα γραφικών χαλασμένη"))
}

func TestFilterInRange(t *testing.T) {
	c := SearchCriteria{Keywords: []string{"x"}, PriceLow: 200, PriceHigh: 800}

	assert.True(t, NewFilter(c, false).InRange(5000))

	strict := NewFilter(c, true)
	assert.True(t, strict.InRange(200))
	assert.True(t, strict.InRange(800))
	assert.False(t, strict.InRange(199.99))
	assert.False(t, strict.InRange(800.5))
}
