package crawler

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sjsage522/classifiedcrawler/pkg/errors"
	"sjsage522/classifiedcrawler/services/cache"
)

// RunSummary describes the last finished run for a set of criteria
type RunSummary struct {
	At         time.Time  `json:"at"`
	Pages      int        `json:"pages"`
	Records    int        `json:"records"`
	StopReason StopReason `json:"stop_reason"`
	OutputPath string     `json:"output_path"`
}

// History keeps the last run summary per criteria. It is informational only
// and never changes what a crawl fetches or keeps.
type History struct {
	cache cache.CacheService
	ttl   time.Duration
}

// NewHistory stores summaries in c for ttl
func NewHistory(c cache.CacheService, ttl time.Duration) *History {
	return &History{cache: c, ttl: ttl}
}

// Key returns the cache key for the criteria
func (h *History) Key(c SearchCriteria) string {
	folded := make([]string, len(c.Keywords))
	for i, kw := range c.Keywords {
		folded[i] = fold(kw)
	}
	canonical := fmt.Sprintf("%s|%d|%d|%s", strings.Join(folded, "\x1f"), c.PriceLow, c.PriceHigh, fold(c.Excluded))
	sum := sha1.Sum([]byte(canonical))
	return "crawl:" + hex.EncodeToString(sum[:]) + ":last_run"
}

// Last returns the previous summary, or nil when there is none
func (h *History) Last(c SearchCriteria) (*RunSummary, error) {
	data, err := h.cache.Get(h.Key(c))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCache("memcache", "cannot read run summary", err)
	}

	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, errors.NewCache("memcache", "corrupt run summary", err)
	}
	return &summary, nil
}

// Record stores the summary of a finished run
func (h *History) Record(c SearchCriteria, summary RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return errors.NewCache("memcache", "cannot encode run summary", err)
	}
	if err := h.cache.Set(h.Key(c), data, h.ttl); err != nil {
		return errors.NewCache("memcache", "cannot store run summary", err)
	}
	return nil
}
