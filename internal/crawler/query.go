package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"sjsage522/classifiedcrawler/pkg/errors"
)

const keywordSeparator = "%20"

// SearchCriteria is what a crawl looks for. Build it with NewSearchCriteria
// and do not modify it once the crawl has started.
type SearchCriteria struct {
	Keywords  []string
	PriceLow  int
	PriceHigh int
	Excluded  string
}

// NewSearchCriteria trims and validates the inputs
func NewSearchCriteria(keywords []string, priceLow, priceHigh int, excluded string) (SearchCriteria, error) {
	trimmed := make([]string, len(keywords))
	for i, kw := range keywords {
		trimmed[i] = strings.TrimSpace(kw)
	}

	c := SearchCriteria{
		Keywords:  trimmed,
		PriceLow:  priceLow,
		PriceHigh: priceHigh,
		Excluded:  strings.TrimSpace(excluded),
	}
	if err := c.Validate(); err != nil {
		return SearchCriteria{}, err
	}
	return c, nil
}

// Validate checks keywords and price bounds
func (c SearchCriteria) Validate() error {
	if len(c.Keywords) == 0 {
		return errors.NewValidation("criteria", "at least one keyword is required")
	}
	for i, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			return errors.NewValidation("criteria", fmt.Sprintf("keyword %d is empty", i+1))
		}
	}
	if c.PriceLow < 0 {
		return errors.NewValidation("criteria", fmt.Sprintf("price_low must be >= 0, got %d", c.PriceLow))
	}
	if c.PriceHigh < c.PriceLow {
		return errors.NewValidation("criteria", fmt.Sprintf("price_high %d is below price_low %d", c.PriceHigh, c.PriceLow))
	}
	return nil
}

// ParseKeywords splits a comma separated keyword list and drops blank entries
func ParseKeywords(s string) []string {
	var keywords []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}

// SearchTemplate holds the fixed parts of the search URL
type SearchTemplate struct {
	BaseURL  string
	Type     string
	Category string
	SortBy   string
}

// DefaultSearchTemplate returns the insomnia.gr classifieds search template
func DefaultSearchTemplate() SearchTemplate {
	return SearchTemplate{
		BaseURL:  "https://www.insomnia.gr/classifieds/search/",
		Type:     "classifieds_advert",
		Category: "14",
		SortBy:   "priceHigh",
	}
}

// BuildSearchURL returns the first results page URL for the criteria
func BuildSearchURL(tpl SearchTemplate, c SearchCriteria) string {
	encoded := make([]string, len(c.Keywords))
	for i, kw := range c.Keywords {
		encoded[i] = strings.ReplaceAll(url.QueryEscape(kw), "+", keywordSeparator)
	}

	sep := "?"
	if strings.Contains(tpl.BaseURL, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%sq=%s&type=%s&price_low=%d&price_high=%d&nodes=%s&sortby=%s",
		tpl.BaseURL, sep,
		strings.Join(encoded, keywordSeparator),
		url.QueryEscape(tpl.Type),
		c.PriceLow, c.PriceHigh,
		url.QueryEscape(tpl.Category),
		url.QueryEscape(tpl.SortBy),
	)
}
