package crawler

import (
	"errors"
	"testing"

	crawlerrors "sjsage522/classifiedcrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.234,56 €", 1234.56},
		{"50€", 50},
		{"350,00€", 350},
		{"  € 1.000  ", 1000},
		{"Τιμή: 12,5 €", 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizePriceMalformed(t *testing.T) {
	for _, raw := range []string{"N/A", "", "1,2,3", "Συζητήσιμη"} {
		_, err := NormalizePrice(raw)
		assert.True(t, errors.Is(err, crawlerrors.ErrPriceParse), raw)
		assert.True(t, errors.Is(err, crawlerrors.ErrAdParse), raw)
	}
}
