package crawler

// ListingRecord is one accepted ad
type ListingRecord struct {
	Page  int     `json:"page"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Link  string  `json:"link"`
}

// Candidate is an ad as found on the page, before filtering
type Candidate struct {
	Index    int
	Title    string
	Link     string
	RawPrice string
	// HasPrice is false when the ad has no price element
	HasPrice bool
}

// Selectors contains CSS selectors for the results page
type Selectors struct {
	Ready         string
	AdList        string
	Title         string
	Price         string
	NextPage      string
	NextLink      string
	InactiveClass string
}

// DefaultSelectors returns the selectors of the insomnia.gr classifieds search
func DefaultSelectors() Selectors {
	return Selectors{
		Ready:         "body",
		AdList:        `li.ipsStreamItem[data-role="activityItem"]`,
		Title:         `span.ipsContained.ipsType_break > a[data-linktype="link"]`,
		Price:         "span.ipsStream_price",
		NextPage:      "li.ipsPagination_next",
		NextLink:      "a",
		InactiveClass: "ipsPagination_inactive",
	}
}

// State is a step of the crawl state machine
type State string

const (
	StateInit        State = "INIT"
	StateLoadingPage State = "LOADING_PAGE"
	StateExtracting  State = "EXTRACTING"
	StateTerminated  State = "TERMINATED"
	StateExporting   State = "EXPORTING"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// StopReason says why pagination ended
type StopReason string

const (
	StopNoAds             StopReason = "no_ads"
	StopNoNextControl     StopReason = "no_next_control"
	StopLastPage          StopReason = "last_page"
	StopBrokenNextControl StopReason = "broken_next_control"
)

// Result is the outcome of a crawl
type Result struct {
	Records    []ListingRecord
	Pages      int
	StopReason StopReason
	State      State
}
