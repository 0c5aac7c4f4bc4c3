package crawler

import "strings"

// Paginator finds the next results page
type Paginator struct {
	Selectors Selectors
}

// NewPaginator creates a paginator for the given selectors
func NewPaginator(selectors Selectors) *Paginator {
	return &Paginator{Selectors: selectors}
}

// Next returns the absolute URL of the next page. When there is none it
// returns an empty URL and the reason pagination stops.
func (p *Paginator) Next(doc PageDocument) (string, StopReason) {
	control, ok := doc.First(p.Selectors.NextPage)
	if !ok {
		return "", StopNoNextControl
	}
	if p.Selectors.InactiveClass != "" && control.HasClass(p.Selectors.InactiveClass) {
		return "", StopLastPage
	}

	anchor, ok := control.First(p.Selectors.NextLink)
	if !ok {
		return "", StopBrokenNextControl
	}
	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", StopBrokenNextControl
	}

	next, err := ResolveURL(doc.URL(), href)
	if err != nil {
		return "", StopBrokenNextControl
	}
	return next, ""
}
