package crawler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sjsage522/classifiedcrawler/pkg/errors"
)

var nonPriceChars = regexp.MustCompile(`[^\d.,]`)

// NormalizePrice turns a price label such as "1.234,56 €" into 1234.56.
// The site writes '.' as the thousands separator and ',' as the decimal one.
func NormalizePrice(raw string) (float64, error) {
	digits := nonPriceChars.ReplaceAllString(raw, "")
	digits = strings.ReplaceAll(digits, ".", "")
	digits = strings.ReplaceAll(digits, ",", ".")

	price, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, errors.NewPriceParse("price", fmt.Sprintf("cannot parse %q", raw), err)
	}
	return price, nil
}
