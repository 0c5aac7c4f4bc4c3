package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sjsage522/classifiedcrawler/pkg/errors"
	"sjsage522/classifiedcrawler/services/cache"
)

type fixtureAd struct {
	title string
	href  string
	price string
}

// resultsPage renders a results page in the markup the site uses
func resultsPage(ads []fixtureAd, next string, inactive bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><ol class="ipsStream">`)
	for _, ad := range ads {
		fmt.Fprintf(&b, `
<li class="ipsStreamItem ipsStreamItem_contentBlock" data-role="activityItem">
  <div class="ipsStreamItem_header">
    <span class="ipsContained ipsType_break"><a data-linktype="link" href="%s">%s</a></span>
  </div>
  <span class="ipsStream_price">%s</span>
</li>`, ad.href, ad.title, ad.price)
	}
	b.WriteString(`</ol>`)

	if next != "" || inactive {
		class := "ipsPagination_next"
		if inactive {
			class += " ipsPagination_inactive"
		}
		fmt.Fprintf(&b, `<ul class="ipsPagination"><li class="ipsPagination_prev"><a href="/prev">Prev</a></li><li class="%s"><a href="%s">Next</a></li></ul>`, class, next)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

// fixtureFetcher serves pages from memory and counts session use
type fixtureFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	openErr error
	opened  int
	closed  int
	loaded  []string
}

func newFixtureFetcher(pages map[string]string) *fixtureFetcher {
	return &fixtureFetcher{pages: pages}
}

func (f *fixtureFetcher) Open(ctx context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &fixtureSession{f: f}, nil
}

type fixtureSession struct {
	f *fixtureFetcher
}

func (s *fixtureSession) Load(ctx context.Context, url string) (PageDocument, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.loaded = append(s.f.loaded, url)

	html, ok := s.f.pages[url]
	if !ok {
		return nil, errors.NewNavigation("fixture", "no such page "+url, nil)
	}
	return NewDocumentFromString(html, url)
}

func (s *fixtureSession) Close() error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.closed++
	return nil
}

// recordingExporter keeps what it was asked to export
type recordingExporter struct {
	path    string
	records []ListingRecord
	calls   int
	err     error
}

func (e *recordingExporter) Export(path string, records []ListingRecord) error {
	e.calls++
	e.path = path
	e.records = records
	return e.err
}

// mockPublisher collects published messages
type mockPublisher struct {
	messages []string
	err      error
	trimmed  int
}

func (p *mockPublisher) Publish(key string, message []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, key+"="+string(message))
	return nil
}

func (p *mockPublisher) TrimStreams() error {
	p.trimmed++
	return nil
}

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}
