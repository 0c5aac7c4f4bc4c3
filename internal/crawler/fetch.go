package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sjsage522/classifiedcrawler/helpers"
	"sjsage522/classifiedcrawler/pkg/errors"
)

// Fetcher opens the page loading session a crawl uses from start to end
type Fetcher interface {
	Open(ctx context.Context) (Session, error)
}

// Session loads pages one at a time. Close may be called more than once.
type Session interface {
	Load(ctx context.Context, url string) (PageDocument, error)
	Close() error
}

// HTTPFetcher loads pages with plain HTTP requests. It suits result pages
// that are rendered server side.
type HTTPFetcher struct {
	Timeout time.Duration
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher with a per-page timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Timeout: timeout}
}

// Open implements Fetcher
func (f *HTTPFetcher) Open(ctx context.Context) (Session, error) {
	client := f.Client
	if client == nil {
		client = helpers.NewClient(f.Timeout)
	}
	return &httpSession{client: client}, nil
}

type httpSession struct {
	client *http.Client
}

func (s *httpSession) Load(ctx context.Context, url string) (PageDocument, error) {
	body, err := helpers.FetchWithRandomHeaders(ctx, s.client, url)
	if err != nil {
		return nil, errors.NewNavigation("http", fmt.Sprintf("cannot load %s", url), err)
	}

	doc, err := NewDocument(body, url)
	if err != nil {
		return nil, errors.NewNavigation("http", fmt.Sprintf("cannot parse %s", url), err)
	}
	return doc, nil
}

func (s *httpSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
