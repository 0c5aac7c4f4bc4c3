package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"sjsage522/classifiedcrawler/logger"
	"sjsage522/classifiedcrawler/pkg/errors"
)

// SpreadsheetExtensions are the output formats a run can write
var SpreadsheetExtensions = []string{".xlsx", ".csv"}

// Exporter writes the accepted records to path
type Exporter interface {
	Export(path string, records []ListingRecord) error
}

// Publisher receives every exported record
type Publisher interface {
	Publish(key string, message []byte) error
}

// Options configures a Crawler
type Options struct {
	Template          SearchTemplate
	Selectors         Selectors
	EnforcePriceRange bool

	// Optional
	History   *History
	Publisher Publisher
}

// Request is one crawl-and-export run
type Request struct {
	Criteria   SearchCriteria
	OutputPath string
	Progress   ProgressReporter
}

// Validate checks the request before anything is fetched
func (r Request) Validate() error {
	if err := r.Criteria.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		return errors.NewValidation("request", "output path is required")
	}
	ext := strings.ToLower(filepath.Ext(r.OutputPath))
	if !slices.Contains(SpreadsheetExtensions, ext) {
		return errors.NewValidation("request", fmt.Sprintf("output path %q must end in one of %v", r.OutputPath, SpreadsheetExtensions))
	}
	return nil
}

// Crawler runs the fetch, extract, filter, paginate loop
type Crawler struct {
	fetcher   Fetcher
	exporter  Exporter
	extractor *Extractor
	paginator *Paginator
	opts      Options
	log       *logger.Logger
}

// New creates a crawler. The logger is owned by the caller.
func New(fetcher Fetcher, exporter Exporter, log *logger.Logger, opts Options) *Crawler {
	if log == nil {
		log = logger.Nop()
	}
	return &Crawler{
		fetcher:   fetcher,
		exporter:  exporter,
		extractor: NewExtractor(opts.Selectors),
		paginator: NewPaginator(opts.Selectors),
		opts:      opts,
		log:       log.ForComponent("crawler"),
	}
}

// Run crawls every results page for the request and exports what matched.
// Only navigation, progress and export failures are returned; ads that cannot
// be parsed are logged and skipped.
func (c *Crawler) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return &Result{State: StateFailed}, err
	}

	if c.opts.History != nil {
		if last, err := c.opts.History.Last(req.Criteria); err != nil {
			c.log.WithError(err).Warn().Msg("Cannot read previous run summary")
		} else if last != nil {
			c.log.Info().
				Time("at", last.At).
				Int("pages", last.Pages).
				Int("records", last.Records).
				Msg("Previous run for these criteria")
		}
	}

	res, err := c.Crawl(ctx, req.Criteria, req.Progress)
	if err != nil {
		return res, err
	}

	c.transition(res, StateExporting)
	if err := c.exporter.Export(req.OutputPath, res.Records); err != nil {
		c.transition(res, StateFailed)
		if !errors.Is(err, errors.ErrExport) {
			err = errors.NewExport("exporter", fmt.Sprintf("cannot write %s", req.OutputPath), err)
		}
		return res, err
	}
	c.log.Info().Str("path", req.OutputPath).Int("records", len(res.Records)).Msg("Data saved")
	c.transition(res, StateDone)

	c.publish(res.Records)
	if c.opts.History != nil {
		summary := RunSummary{
			At:         time.Now(),
			Pages:      res.Pages,
			Records:    len(res.Records),
			StopReason: res.StopReason,
			OutputPath: req.OutputPath,
		}
		if err := c.opts.History.Record(req.Criteria, summary); err != nil {
			c.log.WithError(err).Warn().Msg("Cannot store run summary")
		}
	}

	return res, nil
}

// Crawl walks the results pages for criteria and returns the accepted records
// in page then DOM order. The fetch session is opened once and always closed.
// On failure the records gathered so far are discarded.
func (c *Crawler) Crawl(ctx context.Context, criteria SearchCriteria, progress ProgressReporter) (*Result, error) {
	res := &Result{State: StateInit}
	filter := NewFilter(criteria, c.opts.EnforcePriceRange)

	session, err := c.fetcher.Open(ctx)
	if err != nil {
		c.transition(res, StateFailed)
		return res, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("Closing fetch session failed")
		}
	}()

	url := BuildSearchURL(c.opts.Template, criteria)
	var records []ListingRecord

	for page := 1; ; page++ {
		log := c.log.WithField("page", page)

		c.transition(res, StateLoadingPage)
		log.Info().Str("url", url).Msg("Processing page")
		doc, err := session.Load(ctx, url)
		if err != nil {
			c.transition(res, StateFailed)
			log.Error().Err(err).Int("discarded_records", len(records)).Msg("Page load failed, aborting crawl")
			return res, err
		}
		res.Pages = page

		c.transition(res, StateExtracting)
		found, kept := 0, 0
		for candidate, err := range c.extractor.Ads(doc) {
			found++
			var record ListingRecord
			var ok bool
			if err == nil {
				record, ok, err = c.accept(log, filter, page, candidate)
			}
			if err != nil {
				if !errors.IsRecoverable(err) {
					c.transition(res, StateFailed)
					log.Error().Err(err).Int("ad", candidate.Index).Int("discarded_records", len(records)).Msg("Ad processing failed, aborting crawl")
					return res, err
				}
				c.logAdError(log, candidate.Index, err)
				continue
			}
			if ok {
				records = append(records, record)
				kept++
			}
		}

		if found == 0 {
			log.Info().Msg("No ads found on this page")
			res.StopReason = StopNoAds
			break
		}
		log.Info().Int("ads", found).Int("accepted", kept).Msg("Page processed")

		if progress != nil {
			if err := progress.PageCompleted(page); err != nil {
				c.transition(res, StateFailed)
				return res, fmt.Errorf("progress reporter failed on page %d: %w", page, err)
			}
		}

		next, reason := c.paginator.Next(doc)
		if next == url {
			reason = StopBrokenNextControl
		}
		if reason != "" {
			c.logStop(log, reason)
			res.StopReason = reason
			break
		}
		url = next
	}

	c.transition(res, StateTerminated)
	res.Records = records
	c.log.Info().Int("pages", res.Pages).Int("records", len(records)).Str("stop_reason", string(res.StopReason)).Msg("Crawl finished")
	return res, nil
}

// accept filters a candidate and parses its price. Price problems are only
// reported for ads whose title was accepted.
func (c *Crawler) accept(log *logger.Logger, filter *Filter, page int, cand Candidate) (ListingRecord, bool, error) {
	if !filter.Accept(cand.Title) {
		log.Debug().Int("ad", cand.Index).Str("title", cand.Title).Msg("Rejected by keywords")
		return ListingRecord{}, false, nil
	}

	if !cand.HasPrice {
		return ListingRecord{}, false, errors.NewAdParse("extractor", fmt.Sprintf("ad %d: price element not found", cand.Index), nil)
	}
	price, err := NormalizePrice(cand.RawPrice)
	if err != nil {
		return ListingRecord{}, false, err
	}
	if !filter.InRange(price) {
		log.Debug().Int("ad", cand.Index).Float64("price", price).Msg("Rejected by price range")
		return ListingRecord{}, false, nil
	}

	return ListingRecord{Page: page, Title: cand.Title, Price: price, Link: cand.Link}, true, nil
}

func (c *Crawler) logAdError(log *logger.Logger, index int, err error) {
	event := log.Error().Err(err).Int("ad", index)
	if typ, ok := errors.TypeOf(err); ok {
		event = event.Str("error_type", string(typ))
	}
	event.Msg("Error processing ad")
}

func (c *Crawler) logStop(log *logger.Logger, reason StopReason) {
	switch reason {
	case StopBrokenNextControl:
		log.Warn().Str("stop_reason", string(reason)).Msg("Next page control is malformed, stopping")
	default:
		log.Info().Str("stop_reason", string(reason)).Msg("No more pages")
	}
}

func (c *Crawler) transition(res *Result, to State) {
	c.log.Debug().Str("from", string(res.State)).Str("to", string(to)).Msg("State change")
	res.State = to
}

func (c *Crawler) publish(records []ListingRecord) {
	if c.opts.Publisher == nil {
		return
	}
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			c.log.Error().Err(err).Str("link", r.Link).Msg("Failed to marshal listing")
			continue
		}
		if err := c.opts.Publisher.Publish("listing", data); err != nil {
			c.log.Error().Err(errors.NewPublisher("redis", "publish failed", err)).Str("link", r.Link).Msg("Failed to publish listing")
		}
	}

	if t, ok := c.opts.Publisher.(interface{ TrimStreams() error }); ok {
		if err := t.TrimStreams(); err != nil {
			c.log.Warn().Err(err).Msg("Stream trimming failed")
		}
	}
}
