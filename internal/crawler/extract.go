package crawler

import (
	"fmt"
	"iter"
	"strings"

	"sjsage522/classifiedcrawler/pkg/errors"
)

// Extractor turns a results page into candidates
type Extractor struct {
	Selectors Selectors
}

// NewExtractor creates an extractor for the given selectors
func NewExtractor(selectors Selectors) *Extractor {
	return &Extractor{Selectors: selectors}
}

// Ads walks the ad containers of doc in DOM order. An ad that is missing its
// title anchor or link yields an ad parse error instead of a candidate; the
// walk continues with the next ad. A missing price element is left for the
// caller to judge once the title has been filtered. A page without ad
// containers yields nothing.
func (e *Extractor) Ads(doc PageDocument) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		for i, ad := range doc.Find(e.Selectors.AdList) {
			candidate, err := e.candidate(doc.URL(), i, ad)
			if !yield(candidate, err) {
				return
			}
		}
	}
}

func (e *Extractor) candidate(pageURL string, index int, ad Element) (Candidate, error) {
	anchor, ok := ad.First(e.Selectors.Title)
	if !ok {
		return Candidate{Index: index}, adError(index, "title anchor not found")
	}

	title := strings.TrimSpace(anchor.Text())
	if title == "" {
		return Candidate{Index: index}, adError(index, "title is empty")
	}

	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return Candidate{Index: index, Title: title}, adError(index, "title anchor has no href")
	}

	link, err := ResolveURL(pageURL, href)
	if err != nil {
		return Candidate{Index: index, Title: title}, errors.NewAdParse("extractor", fmt.Sprintf("ad %d: bad link %q", index, href), err)
	}

	candidate := Candidate{Index: index, Title: title, Link: link}
	if price, ok := ad.First(e.Selectors.Price); ok {
		candidate.RawPrice = strings.TrimSpace(price.Text())
		candidate.HasPrice = true
	}
	return candidate, nil
}

func adError(index int, msg string) error {
	return errors.NewAdParse("extractor", fmt.Sprintf("ad %d: %s", index, msg), nil)
}
