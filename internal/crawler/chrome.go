package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sjsage522/classifiedcrawler/logger"
	"sjsage522/classifiedcrawler/pkg/errors"

	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the browser session
type ChromeOptions struct {
	// RemoteURL is a DevTools websocket endpoint. Empty starts a local browser.
	RemoteURL string
	Headless  bool
	// ReadySelector must be present before a page counts as loaded
	ReadySelector string
	Timeout       time.Duration
}

// ChromeFetcher loads pages in a real browser so scripted content is rendered
type ChromeFetcher struct {
	opts ChromeOptions
	log  *logger.Logger
}

// NewChromeFetcher creates a browser-backed fetcher
func NewChromeFetcher(opts ChromeOptions, log *logger.Logger) *ChromeFetcher {
	if log == nil {
		log = logger.Nop()
	}
	if opts.ReadySelector == "" {
		opts.ReadySelector = "body"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &ChromeFetcher{opts: opts, log: log.ForComponent("chrome")}
}

func (f *ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	return opts
}

// Open starts the browser (or attaches to the remote one) and opens a tab
func (f *ChromeFetcher) Open(ctx context.Context) (Session, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if f.opts.RemoteURL != "" {
		f.log.Info().Str("remote", f.opts.RemoteURL).Msg("Attaching to remote browser")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, f.opts.RemoteURL)
	} else {
		f.log.Info().Bool("headless", f.opts.Headless).Msg("Launching browser")
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		f.log.Debug().Msgf(format, args...)
	}))

	// The first Run starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, errors.NewNavigation("chrome", "cannot start browser session", err)
	}

	return &chromeSession{
		tabCtx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		opts: f.opts,
		log:  f.log,
	}, nil
}

type chromeSession struct {
	tabCtx context.Context
	cancel context.CancelFunc
	once   sync.Once
	opts   ChromeOptions
	log    *logger.Logger
}

func (s *chromeSession) Load(ctx context.Context, url string) (PageDocument, error) {
	runCtx, cancel := context.WithTimeout(s.tabCtx, s.opts.Timeout)
	defer cancel()

	// Stop waiting when the caller gives up too.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(s.opts.ReadySelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.NewNavigation("chrome", fmt.Sprintf("cannot load %s", url), err)
	}

	doc, err := NewDocument(strings.NewReader(html), url)
	if err != nil {
		return nil, errors.NewNavigation("chrome", fmt.Sprintf("cannot parse %s", url), err)
	}
	return doc, nil
}

func (s *chromeSession) Close() error {
	s.once.Do(func() {
		s.log.Info().Msg("Closing browser")
		s.cancel()
	})
	return nil
}
